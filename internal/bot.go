package internal

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// Client is the slice of the Discord REST surface the bot touches. rest.Rest
// satisfies it; tests substitute a fake.
type Client interface {
	GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error)
	CreateRole(guildID snowflake.ID, createRole discord.RoleCreate, opts ...rest.RequestOpt) (*discord.Role, error)
	UpdateRolePositions(guildID snowflake.ID, rolePositionUpdates []discord.RolePositionUpdate, opts ...rest.RequestOpt) ([]discord.Role, error)
	DeleteRole(guildID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	GetUser(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.User, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

type Bot struct {
	Client Client
	Config *Config
	// Audit writes the durable local audit trail; the devlog channel is its
	// operator-facing mirror.
	Audit *slog.Logger
}

// Devlog mirrors an operator-facing line to the devlog channel and the local
// logs. The channel send is best-effort; a failing devlog never fails the
// command that produced it.
func (b *Bot) Devlog(content string) {
	b.Audit.Info(content)
	slog.Info(content)
	if _, err := b.Client.CreateMessage(b.Config.DevlogChannelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()); err != nil {
		slog.Error("devlog: failed to post to channel", slog.Any("channel.id", b.Config.DevlogChannelID), tint.Err(err))
	}
}

func (b *Bot) Devlogf(format string, a ...any) {
	b.Devlog(fmt.Sprintf(format, a...))
}
