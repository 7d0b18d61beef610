// Package handlers routes incoming guild messages to the bot's text commands
// and the keyword trigger.
package handlers

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/time/rate"

	"zola-bot/internal"
)

const (
	commandPrefix = "!"
	embedColor    = 0x5865F2

	// minimum interval between list renders per invoker
	taxingDelay = 5 * time.Second
)

func NewHandler(b *internal.Bot) *Handler {
	return &Handler{
		Bot:     b,
		queue:   newWorkQueue(),
		buckets: make(map[snowflake.ID]*rate.Limiter),
	}
}

type Handler struct {
	Bot   *internal.Bot
	queue *workQueue

	bucketMu sync.Mutex
	buckets  map[snowflake.ID]*rate.Limiter
}

// message is the per-invocation slice of a gateway message event the command
// handlers need. Handlers hold no state beyond it.
type message struct {
	guildID   snowflake.ID
	channelID snowflake.ID
	author    discord.User
	content   string
}

// OnMessageCreate enqueues the message on its channel's serial queue: one
// conversation's commands run to completion in order while separate channels
// proceed in parallel.
func (h *Handler) OnMessageCreate(ev *events.GuildMessageCreate) {
	if ev.Message.Author.Bot {
		return
	}
	msg := message{
		guildID:   ev.GuildID,
		channelID: ev.ChannelID,
		author:    ev.Message.Author,
		content:   ev.Message.Content,
	}
	h.queue.Do(msg.channelID, func() {
		h.dispatch(msg)
	})
}

func (h *Handler) dispatch(msg message) {
	if !strings.HasPrefix(msg.content, commandPrefix) {
		h.handleTrigger(msg)
		return
	}
	args := splitArgs(strings.TrimPrefix(msg.content, commandPrefix))
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "color":
		h.handleColor(msg, args[1:])
	case "big":
		h.handleBig(msg, args[1:])
	case "help":
		h.handleHelp(msg)
	default:
		h.replyf(msg.channelID, "I have not been taught the command '%s'.", args[0])
	}
}

func (h *Handler) handleHelp(msg message) {
	embed := discord.NewEmbedBuilder().
		SetTitle("Commands").
		SetDescription("Greetings. If you require more information about a specific command, use !color info.").
		SetColor(embedColor).
		AddField("!big <emoji or user>", "Magnify a custom emoji or a user's avatar.", false).
		AddField("!color add <label> <#hex>", "Create a self-assignable color role.", false).
		AddField("!color list", "Preview all available colors.", false).
		AddField("!color set <label>", "Assign a color to yourself.", false).
		AddField("!color delete <label>", "Destroy a color role.", false).
		Build()
	if _, err := h.Bot.Client.CreateMessage(msg.channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build()); err != nil {
		slog.Error("zola: error while sending help", slog.Any("channel.id", msg.channelID), tint.Err(err))
	}
}

func (h *Handler) reply(channelID snowflake.ID, content string) {
	if _, err := h.Bot.Client.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()); err != nil {
		slog.Error("zola: error while sending reply", slog.Any("channel.id", channelID), tint.Err(err))
	}
}

func (h *Handler) replyf(channelID snowflake.ID, format string, a ...any) {
	if _, err := h.Bot.Client.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContentf(format, a...).
		Build()); err != nil {
		slog.Error("zola: error while sending reply", slog.Any("channel.id", channelID), tint.Err(err))
	}
}

// waitTaxing delays repeat invocations of taxing commands per invoker. This
// is the only backpressure in the bot.
func (h *Handler) waitTaxing(userID snowflake.ID) {
	h.bucketMu.Lock()
	limiter, ok := h.buckets[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(taxingDelay), 1)
		h.buckets[userID] = limiter
	}
	h.bucketMu.Unlock()
	time.Sleep(limiter.Reserve().Delay())
}
