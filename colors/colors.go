// Package colors holds the pure logic behind the color-role commands: hex
// parsing, label validation and the per-invocation view over a guild's roles.
package colors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// RolePrefix marks which guild roles are managed color roles.
	RolePrefix = "cl:"
	// SentinelRoleName marks the hierarchy position below which color roles
	// are inserted. It must exist in the guild; creating it is part of guild
	// setup, not of this bot.
	SentinelRoleName = "--colors-start-here--"
	// MaxLabelWidth bounds label length; labels are later rendered into a
	// fixed-width raster column.
	MaxLabelWidth = 20
)

var (
	ErrEmptyLabel       = errors.New("colors: empty label")
	ErrHexFormat        = errors.New("colors: hexcode is not a hash followed by 6 hex digits")
	ErrBlackHex         = errors.New("colors: #000000 is reserved, Discord treats it as no color")
	ErrSentinelNotFound = errors.New("colors: sentinel role not found")
)

// LabelTooLongError reports a label exceeding MaxLabelWidth.
type LabelTooLongError struct {
	Label string
	Limit int
}

func (e *LabelTooLongError) Error() string {
	return fmt.Sprintf("colors: label %q is longer than %d characters", e.Label, e.Limit)
}

// HexChannelError reports which color channel of a hexcode failed to parse.
type HexChannelError struct {
	Channel string
	Hex     string
	Err     error
}

func (e *HexChannelError) Error() string {
	return fmt.Sprintf("colors: failed to parse byte %q from hex %q", e.Channel, e.Hex)
}

func (e *HexChannelError) Unwrap() error {
	return e.Err
}

// ParseHex converts a "#RRGGBB" string into a packed 24-bit integer.
// The input is taken as-is: no case folding, no whitespace trimming. The
// literal "#000000" is rejected because Discord renders an all-zero color as
// "no custom color"; callers should suggest "#000001" instead.
func ParseHex(hex string) (int, error) {
	if len(hex) != 7 || !strings.HasPrefix(hex, "#") {
		return 0, ErrHexFormat
	}
	if hex == "#000000" {
		return 0, ErrBlackHex
	}
	var rgb int
	for i, channel := range []string{"r", "g", "b"} {
		v, err := strconv.ParseUint(hex[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return 0, &HexChannelError{Channel: channel, Hex: hex, Err: err}
		}
		rgb = rgb<<8 | int(v)
	}
	return rgb, nil
}

// ValidateLabel gates a user-supplied label before any platform call.
func ValidateLabel(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if len(label) > MaxLabelWidth {
		return &LabelTooLongError{Label: label, Limit: MaxLabelWidth}
	}
	return nil
}

// Directory is a transient snapshot of a guild's roles, fetched fresh for a
// single command invocation. It is never cached and never mutated.
type Directory struct {
	roles []discord.Role
}

func NewDirectory(roles []discord.Role) Directory {
	return Directory{roles: roles}
}

// Colors returns the managed color roles keyed by label (prefix stripped).
// Iteration order of the result is up to the caller.
func (d Directory) Colors() map[string]int {
	colors := make(map[string]int)
	for _, role := range d.roles {
		if label, ok := strings.CutPrefix(role.Name, RolePrefix); ok {
			colors[label] = role.Color
		}
	}
	return colors
}

// Find locates the concrete role behind a label.
func (d Directory) Find(label string) (discord.Role, bool) {
	name := RolePrefix + label
	for _, role := range d.roles {
		if role.Name == name {
			return role, true
		}
	}
	return discord.Role{}, false
}

// Get returns the color role carrying the given id, if that id belongs to a
// managed color role at all.
func (d Directory) Get(id snowflake.ID) (discord.Role, bool) {
	for _, role := range d.roles {
		if role.ID == id && strings.HasPrefix(role.Name, RolePrefix) {
			return role, true
		}
	}
	return discord.Role{}, false
}

// Has reports whether a color role with the given label already exists.
func (d Directory) Has(label string) bool {
	_, ok := d.Find(label)
	return ok
}

// InsertionPosition returns the hierarchy position of the sentinel role, so
// new color roles can be pinned immediately below it. A missing sentinel is a
// guild misconfiguration, not a user error.
func (d Directory) InsertionPosition() (int, error) {
	for _, role := range d.roles {
		if role.Name == SentinelRoleName {
			return role.Position, nil
		}
	}
	return 0, ErrSentinelNotFound
}
