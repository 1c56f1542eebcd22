package services

import (
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Discord is the part of the REST API the services call. rest.Rest
// satisfies it.
type Discord interface {
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error

	GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error)
	CreateRole(guildID snowflake.ID, roleCreate discord.RoleCreate, opts ...rest.RequestOpt) (*discord.Role, error)
	DeleteRole(guildID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error

	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	UpdateMessage(channelID snowflake.ID, messageID snowflake.ID, messageUpdate discord.MessageUpdate, opts ...rest.RequestOpt) (*discord.Message, error)
}

var _ Discord = (rest.Rest)(nil)

// Discord JSON error codes the services react to.
const (
	jsonErrorUnknownMember  rest.JSONErrorCode = 10007
	jsonErrorUnknownMessage rest.JSONErrorCode = 10008
)

// isJSONError reports whether err carries the given Discord JSON error code.
func isJSONError(err error, code rest.JSONErrorCode) bool {
	var re rest.Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	var rp *rest.Error
	return errors.As(err, &rp) && rp != nil && rp.Code == code
}

// MemberName is the name a member is shown under in the guild.
func MemberName(m discord.Member) string {
	if m.Nick != nil && *m.Nick != "" {
		return *m.Nick
	}
	return UserName(m.User)
}

func UserName(u discord.User) string {
	if u.GlobalName != nil && *u.GlobalName != "" {
		return *u.GlobalName
	}
	return u.Username
}

// parseID parses a stored id; empty and malformed ids are not ok.
func parseID(id string) (snowflake.ID, bool) {
	if id == "" {
		return 0, false
	}
	v, err := snowflake.Parse(id)
	if err != nil {
		return 0, false
	}
	return v, true
}
