package services

import (
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

var errUnknown = errors.New("unknown")

type postedMessage struct {
	ChannelID snowflake.ID
	Create    discord.MessageCreate
	Updates   []discord.MessageUpdate
}

// fakeDiscord records REST calls in memory.
type fakeDiscord struct {
	mu sync.Mutex

	nextID         snowflake.ID
	members        map[snowflake.ID]discord.Member
	getMemberCalls int
	roles          []discord.Role
	createdRoles   int
	deletedRoles   []snowflake.ID
	memberRoles    map[snowflake.ID][]snowflake.ID
	messages       map[snowflake.ID]*postedMessage
	order          []snowflake.ID
	failMessages   bool
	failUpdates    bool
	createDelay    time.Duration
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{
		nextID:      1000,
		members:     make(map[snowflake.ID]discord.Member),
		memberRoles: make(map[snowflake.ID][]snowflake.ID),
		messages:    make(map[snowflake.ID]*postedMessage),
	}
}

func (f *fakeDiscord) id() snowflake.ID {
	f.nextID++
	return f.nextID
}

func (f *fakeDiscord) GetMember(_ snowflake.ID, userID snowflake.ID, _ ...rest.RequestOpt) (*discord.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getMemberCalls++
	m, ok := f.members[userID]
	if !ok {
		return nil, rest.Error{Code: jsonErrorUnknownMember, Message: "Unknown Member"}
	}
	return &m, nil
}

func (f *fakeDiscord) AddMemberRole(_ snowflake.ID, userID snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberRoles[userID] = append(f.memberRoles[userID], roleID)
	return nil
}

func (f *fakeDiscord) GetRoles(_ snowflake.ID, _ ...rest.RequestOpt) ([]discord.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]discord.Role(nil), f.roles...), nil
}

func (f *fakeDiscord) CreateRole(_ snowflake.ID, roleCreate discord.RoleCreate, _ ...rest.RequestOpt) (*discord.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role := discord.Role{ID: f.id(), Name: roleCreate.Name}
	f.roles = append(f.roles, role)
	f.createdRoles++
	return &role, nil
}

func (f *fakeDiscord) DeleteRole(_ snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.roles {
		if r.ID == roleID {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			f.deletedRoles = append(f.deletedRoles, roleID)
			return nil
		}
	}
	return errUnknown
}

func (f *fakeDiscord) CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	f.mu.Lock()
	delay := f.createDelay
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMessages {
		return nil, errUnknown
	}
	id := f.id()
	f.messages[id] = &postedMessage{ChannelID: channelID, Create: messageCreate}
	f.order = append(f.order, id)
	return &discord.Message{ID: id, ChannelID: channelID}, nil
}

func (f *fakeDiscord) UpdateMessage(channelID snowflake.ID, messageID snowflake.ID, messageUpdate discord.MessageUpdate, _ ...rest.RequestOpt) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates {
		return nil, errUnknown
	}
	m, ok := f.messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, rest.Error{Code: jsonErrorUnknownMessage, Message: "Unknown Message"}
	}
	m.Updates = append(m.Updates, messageUpdate)
	return &discord.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *fakeDiscord) message(id string) *postedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[snowflake.MustParse(id)]
}

func (f *fakeDiscord) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

// deleteMessage drops a message as if it was removed in the client.
func (f *fakeDiscord) deleteMessage(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, snowflake.MustParse(id))
}

func (f *fakeDiscord) getMemberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getMemberCalls
}
