package handlers

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"zola-bot/internal"
)

const (
	testGuildID   = snowflake.ID(10)
	testChannelID = snowflake.ID(100)
	testDevlogID  = snowflake.ID(999)
	testUserID    = snowflake.ID(55)
)

type sentMessage struct {
	channelID snowflake.ID
	create    discord.MessageCreate
}

type memberRoleChange struct {
	userID snowflake.ID
	roleID snowflake.ID
}

// fakeClient implements internal.Client in memory and counts every platform
// call so tests can assert that validation failures never reach the platform.
type fakeClient struct {
	mu sync.Mutex

	roles  []discord.Role
	member *discord.Member
	users  map[snowflake.ID]discord.User

	createRoleErr error
	deleteRoleErr error

	sent       []sentMessage
	created    []discord.RoleCreate
	positioned [][]discord.RolePositionUpdate
	deleted    []snowflake.ID
	added      []memberRoleChange
	removed    []memberRoleChange

	roleCalls int // GetRoles + role/member mutations, excludes CreateMessage
	nextID    snowflake.ID
}

func newFakeClient(roles []discord.Role) *fakeClient {
	return &fakeClient{
		roles:  roles,
		users:  make(map[snowflake.ID]discord.User),
		nextID: snowflake.ID(1000),
	}
}

func (f *fakeClient) GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	return slices.Clone(f.roles), nil
}

func (f *fakeClient) CreateRole(guildID snowflake.ID, createRole discord.RoleCreate, opts ...rest.RequestOpt) (*discord.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	if f.createRoleErr != nil {
		return nil, f.createRoleErr
	}
	f.created = append(f.created, createRole)
	f.nextID++
	role := discord.Role{
		ID:    f.nextID,
		Name:  createRole.Name,
		Color: createRole.Color,
	}
	f.roles = append(f.roles, role)
	return &role, nil
}

func (f *fakeClient) UpdateRolePositions(guildID snowflake.ID, rolePositionUpdates []discord.RolePositionUpdate, opts ...rest.RequestOpt) ([]discord.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	f.positioned = append(f.positioned, rolePositionUpdates)
	return slices.Clone(f.roles), nil
}

func (f *fakeClient) DeleteRole(guildID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	if f.deleteRoleErr != nil {
		return f.deleteRoleErr
	}
	f.deleted = append(f.deleted, roleID)
	f.roles = slices.DeleteFunc(f.roles, func(r discord.Role) bool {
		return r.ID == roleID
	})
	return nil
}

func (f *fakeClient) GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	if f.member == nil {
		return nil, errors.New("unknown member")
	}
	member := *f.member
	member.RoleIDs = slices.Clone(f.member.RoleIDs)
	return &member, nil
}

func (f *fakeClient) AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	f.added = append(f.added, memberRoleChange{userID: userID, roleID: roleID})
	f.member.RoleIDs = append(f.member.RoleIDs, roleID)
	return nil
}

func (f *fakeClient) RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	f.removed = append(f.removed, memberRoleChange{userID: userID, roleID: roleID})
	f.member.RoleIDs = slices.DeleteFunc(f.member.RoleIDs, func(id snowflake.ID) bool {
		return id == roleID
	})
	return nil
}

func (f *fakeClient) GetUser(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return &user, nil
}

func (f *fakeClient) CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{channelID: channelID, create: messageCreate})
	return &discord.Message{ID: snowflake.ID(len(f.sent)), ChannelID: channelID}, nil
}

// replies returns the contents sent to the command channel, devlogs the ones
// mirrored to the operator channel.
func (f *fakeClient) replies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.channelID == testChannelID {
			out = append(out, m.create.Content)
		}
	}
	return out
}

func (f *fakeClient) devlogs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.channelID == testDevlogID {
			out = append(out, m.create.Content)
		}
	}
	return out
}

func newTestHandler(t *testing.T, client *fakeClient) *Handler {
	t.Helper()
	b := &internal.Bot{
		Client: client,
		Config: &internal.Config{
			DevlogChannelID: testDevlogID,
			UploadsDir:      t.TempDir(),
			MemeKeyword:     "zola",
		},
		Audit: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return NewHandler(b)
}

func testMessage(content string) message {
	return message{
		guildID:   testGuildID,
		channelID: testChannelID,
		author:    discord.User{ID: testUserID, Username: "tester"},
		content:   content,
	}
}

var _ internal.Client = (*fakeClient)(nil)
