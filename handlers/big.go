package handlers

import (
	"regexp"
	"unicode"

	"github.com/disgoorg/snowflake/v2"
)

var (
	emojiMentionRegex = regexp.MustCompile(`^<(a?):\w+:(\d+)>$`)
	userMentionRegex  = regexp.MustCompile(`^<@!?(\d+)>$`)
)

const (
	bigUsage    = "Usage: !big <emoji or user>"
	emojiCDNURL = "https://cdn.discordapp.com/emojis/%s.%s"
)

// handleBig magnifies a custom emoji or a user's avatar by replying with the
// full-size CDN URL. First matching branch wins: native emoji (refused, there
// is no image to magnify), custom emoji mention, user mention.
func (h *Handler) handleBig(msg message, args []string) {
	if len(args) == 0 {
		h.reply(msg.channelID, bigUsage)
		return
	}
	target := args[0]

	runes := []rune(target)
	if len(runes) == 1 && runes[0] > unicode.MaxASCII {
		h.Bot.Devlogf("INFO: %s asked to magnify the native emoji %s", msg.author.Username, target)
		h.reply(msg.channelID, "Cannot magnify native emojis, like :tada:.")
		return
	}

	if m := emojiMentionRegex.FindStringSubmatch(target); m != nil {
		ext := "png"
		if m[1] == "a" {
			ext = "gif"
		}
		h.replyf(msg.channelID, emojiCDNURL, m[2], ext)
		return
	}

	if m := userMentionRegex.FindStringSubmatch(target); m != nil {
		userID, err := snowflake.Parse(m[1])
		if err != nil {
			h.reply(msg.channelID, bigUsage)
			return
		}
		user, err := h.Bot.Client.GetUser(userID)
		if err != nil {
			h.reply(msg.channelID, somethingWentWrong)
			h.Bot.Devlogf("ERROR: Failed to fetch user %s. %s", userID, err)
			return
		}
		if url := user.AvatarURL(); url != nil {
			h.reply(msg.channelID, *url)
			return
		}
	}

	h.reply(msg.channelID, bigUsage)
}
