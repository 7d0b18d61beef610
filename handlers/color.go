package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"zola-bot/colors"
	"zola-bot/swatch"
)

const (
	addUsage            = "Usage: !color add label hexcode"
	deleteUsage         = "Usage: !color delete label"
	setUsage            = "Usage: !color set label"
	subcommandsHelp     = "The color command accepts the following subcommands: add, list, delete and set"
	invalidHexcodeReply = "Hexcodes should be a hash followed by 6 hexadecimal characters. e.g. #aba123\nFor more hexcode color examples, see https://htmlcolorcodes.com/color-chart/"
	somethingWentWrong  = "I could not perform the task. Making a note for future improvement."
	noColorRolesReply   = "I couldn't find any color roles. Message a moderator for help."
)

func (h *Handler) handleColor(msg message, args []string) {
	if len(args) == 0 {
		h.reply(msg.channelID, subcommandsHelp)
		return
	}
	switch args[0] {
	case "add":
		h.addColor(msg, args[1:])
	case "list", "ls":
		h.listColors(msg)
	case "delete", "rm":
		h.deleteColor(msg, args[1:])
	case "set", "=":
		h.setColor(msg, args[1:])
	case "info":
		h.colorInfo(msg)
	default:
		h.reply(msg.channelID, subcommandsHelp)
	}
}

func (h *Handler) colorInfo(msg message) {
	h.reply(msg.channelID, subcommandsHelp+"\n"+
		addUsage+"\n"+
		deleteUsage+"\n"+
		setUsage+"\n"+
		"Usage: !color list")
}

func (h *Handler) addColor(msg message, args []string) {
	if len(args) < 2 {
		h.reply(msg.channelID, addUsage)
		return
	}
	label, hexcode := args[0], args[1]

	if err := colors.ValidateLabel(label); err != nil {
		var tooLong *colors.LabelTooLongError
		if errors.As(err, &tooLong) {
			h.replyf(msg.channelID, "Reduce label to %d letters or less.", tooLong.Limit)
		} else {
			h.reply(msg.channelID, addUsage)
		}
		return
	}

	rgb, err := colors.ParseHex(hexcode)
	if err != nil {
		if errors.Is(err, colors.ErrBlackHex) {
			h.reply(msg.channelID, "Discord treats #000000 as \"no color\". I suggest #000001.")
			return
		}
		var channelErr *colors.HexChannelError
		if errors.As(err, &channelErr) {
			slog.Error("zola: failed to parse hexcode channel", slog.String("channel", channelErr.Channel), slog.String("hex", channelErr.Hex))
		}
		h.reply(msg.channelID, invalidHexcodeReply)
		return
	}

	directory, ok := h.fetchDirectory(msg)
	if !ok {
		return
	}
	if directory.Has(label) {
		h.replyf(msg.channelID, "A color with the label \"%s\" already exists.", label)
		return
	}
	position, err := directory.InsertionPosition()
	if err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlog("ERROR: Could not find starting position for color roles. Maybe missing color role marker?")
		return
	}

	role, err := h.Bot.Client.CreateRole(msg.guildID, discord.RoleCreate{
		Name:  colors.RolePrefix + label,
		Color: rgb,
	})
	if err != nil {
		h.reply(msg.channelID, "Could not create that role at this time.")
		h.Bot.Devlogf("ERROR: Failed to create role %s. %s", label, err)
		return
	}
	// The create call cannot place the role; pin it just below the sentinel
	// afterwards. A failure here leaves a functional but mis-sorted role.
	if _, err := h.Bot.Client.UpdateRolePositions(msg.guildID, []discord.RolePositionUpdate{
		{ID: role.ID, Position: json.Ptr(position)},
	}); err != nil {
		h.Bot.Devlogf("ERROR: Failed to position role %s below the marker. %s", label, err)
	}

	h.Bot.Devlogf("INFO: %s created role %s with color <hex:%s, rgb:%d>", msg.author.Username, label, hexcode, rgb)
	h.replyf(msg.channelID, "Role \"%s\" is now available.", label)
}

func (h *Handler) listColors(msg message) {
	h.waitTaxing(msg.author.ID)

	directory, ok := h.fetchDirectory(msg)
	if !ok {
		return
	}
	entries := directory.Colors()
	if len(entries) == 0 {
		h.reply(msg.channelID, noColorRolesReply)
		return
	}

	data, err := swatch.Render(entries)
	if err != nil {
		slog.Error("zola: failed to generate color preview", tint.Err(err))
		h.Bot.Devlogf("ERROR: Failed to generate image: %s", err)
		return
	}
	path := h.persistSwatch(data)

	if _, err := h.Bot.Client.CreateMessage(msg.channelID, discord.NewMessageCreateBuilder().
		AddFile(filepath.Base(path), "", bytes.NewReader(data)).
		Build()); err != nil {
		slog.Error("zola: failed to upload color preview", slog.Any("channel.id", msg.channelID), tint.Err(err))
	}
}

// persistSwatch writes the rendered preview to a unique file under the
// uploads dir so concurrent list invocations never race on one path. The
// file is kept after upload. Persistence is best-effort; the upload reads
// from memory.
func (h *Handler) persistSwatch(data []byte) string {
	uploadsDir := h.Bot.Config.UploadsDir
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		slog.Error("zola: failed to create uploads dir", slog.String("dir", uploadsDir), tint.Err(err))
		return "color-preview.png"
	}
	f, err := os.CreateTemp(uploadsDir, "color-preview-*.png")
	if err != nil {
		slog.Error("zola: failed to create preview file", slog.String("dir", uploadsDir), tint.Err(err))
		return "color-preview.png"
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		slog.Error("zola: failed to persist preview", slog.String("path", f.Name()), tint.Err(err))
	}
	return f.Name()
}

func (h *Handler) deleteColor(msg message, args []string) {
	if len(args) == 0 {
		h.reply(msg.channelID, deleteUsage)
		return
	}
	label := args[0]

	directory, ok := h.fetchDirectory(msg)
	if !ok {
		return
	}
	role, ok := directory.Find(label)
	if !ok {
		h.replyf(msg.channelID, "There is no role with the name %s. You must be mistaken.", label)
		return
	}

	if err := h.Bot.Client.DeleteRole(msg.guildID, role.ID); err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlogf("ERROR: The color role %s could not be deleted for this reason: %s", role.Name, err)
		return
	}
	h.Bot.Devlogf("INFO: Color %s has been destroyed by %s", label, msg.author.Username)
	h.replyf(msg.channelID, "Color %s has been destroyed.", label)
}

func (h *Handler) setColor(msg message, args []string) {
	if len(args) == 0 {
		h.reply(msg.channelID, setUsage)
		return
	}
	label := args[0]

	directory, ok := h.fetchDirectory(msg)
	if !ok {
		return
	}
	target, ok := directory.Find(label)
	if !ok {
		h.replyf(msg.channelID, "No color role exists for label %s.", label)
		return
	}

	member, err := h.Bot.Client.GetMember(msg.guildID, msg.author.ID)
	if err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlogf("ERROR: Failed to fetch member %s. %s", msg.author.Username, err)
		return
	}
	if slices.Contains(member.RoleIDs, target.ID) {
		h.replyf(msg.channelID, "Color %s is already assigned to you.\nIf the color change hasn't taken effect, try typing in a different channel.", label)
		return
	}

	// A member holds at most one color role; strip any stale ones before
	// assigning the target.
	var eg errgroup.Group
	for _, roleID := range member.RoleIDs {
		stale, ok := directory.Get(roleID)
		if !ok || stale.ID == target.ID {
			continue
		}
		eg.Go(func() error {
			if err := h.Bot.Client.RemoveMemberRole(msg.guildID, msg.author.ID, stale.ID); err != nil {
				return err
			}
			h.replyf(msg.channelID, "Removed current color %s.", stale.Name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlogf("ERROR: Failed to remove a previous color from %s. %s", msg.author.Username, err)
		return
	}

	if err := h.Bot.Client.AddMemberRole(msg.guildID, msg.author.ID, target.ID); err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlogf("ERROR: Failed to assign color %s to %s. %s", label, msg.author.Username, err)
		return
	}
	h.Bot.Devlogf("INFO: %s set their color to %s", msg.author.Username, label)
	h.replyf(msg.channelID, "Your self-assigned color is now %s", label)
}

// fetchDirectory takes the per-invocation role snapshot. Lookup failures are
// an operator concern; the user gets the generic acknowledgment.
func (h *Handler) fetchDirectory(msg message) (colors.Directory, bool) {
	roles, err := h.Bot.Client.GetRoles(msg.guildID)
	if err != nil {
		h.reply(msg.channelID, somethingWentWrong)
		h.Bot.Devlogf("ERROR: Failed to fetch roles for guild %s. %s", msg.guildID, err)
		return colors.Directory{}, false
	}
	return colors.NewDirectory(roles), true
}
