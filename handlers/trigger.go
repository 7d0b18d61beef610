package handlers

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/lmittmann/tint"
)

// handleTrigger scans ordinary messages for the configured keyword and, on a
// match, replies with a random image from the meme directory. An empty or
// missing directory is not an error; the bot simply stays quiet.
func (h *Handler) handleTrigger(msg message) {
	keyword := h.Bot.Config.MemeKeyword
	if keyword == "" || !strings.Contains(strings.ToLower(msg.content), keyword) {
		return
	}

	memeDir := h.Bot.Config.MemeDir
	entries, err := os.ReadDir(memeDir)
	if err != nil {
		slog.Debug("zola: cannot read meme dir", slog.String("dir", memeDir), tint.Err(err))
		return
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return
	}

	name := names[rand.IntN(len(names))]
	f, err := os.Open(filepath.Join(memeDir, name))
	if err != nil {
		slog.Error("zola: failed to open meme", slog.String("name", name), tint.Err(err))
		return
	}
	defer f.Close()

	if _, err := h.Bot.Client.CreateMessage(msg.channelID, discord.NewMessageCreateBuilder().
		AddFile(name, "", f).
		Build()); err != nil {
		slog.Error("zola: failed to upload meme", slog.Any("channel.id", msg.channelID), tint.Err(err))
	}
}
