package services

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/rest"
	lru "github.com/hashicorp/golang-lru"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// cachedName is a resolved display name. Absent marks a member that is
// no longer in the guild so it is not fetched again.
type cachedName struct {
	name   string
	absent bool
}

// MemberResolver resolves live display names through an LRU in front of
// the REST API.
type MemberResolver struct {
	rest  Discord
	cache *lru.Cache
}

func NewMemberResolver(client Discord, size int) *MemberResolver {
	cache, _ := lru.New(size)
	return &MemberResolver{rest: client, cache: cache}
}

func cacheKey(guildID, memberID string) string {
	return guildID + "/" + memberID
}

// Remember primes the cache with a name seen on an interaction.
func (r *MemberResolver) Remember(guildID, memberID, name string) {
	if name == "" {
		return
	}
	r.cache.Add(cacheKey(guildID, memberID), cachedName{name: name})
}

// Forget drops a member, e.g. after they left.
func (r *MemberResolver) Forget(guildID, memberID string) {
	r.cache.Remove(cacheKey(guildID, memberID))
}

// Lookup returns a crew.NameLookup bound to guildID.
func (r *MemberResolver) Lookup(ctx context.Context, guildID string) crew.NameLookup {
	return crew.NameLookupFunc(func(memberID string) (string, bool) {
		return r.DisplayName(ctx, guildID, memberID)
	})
}

func (r *MemberResolver) DisplayName(ctx context.Context, guildID, memberID string) (string, bool) {
	key := cacheKey(guildID, memberID)
	if v, ok := r.cache.Get(key); ok {
		c := v.(cachedName)
		return c.name, !c.absent
	}

	gid, ok := parseID(guildID)
	if !ok {
		return "", false
	}
	mid, ok := parseID(memberID)
	if !ok {
		return "", false
	}

	member, err := r.rest.GetMember(gid, mid, rest.WithCtx(ctx))
	if err != nil {
		if isJSONError(err, jsonErrorUnknownMember) {
			r.cache.Add(key, cachedName{absent: true})
		} else {
			slog.Debug("Member lookup failed",
				slog.String("guild_id", guildID),
				slog.String("member_id", memberID),
				slog.Any("error", err))
		}
		return "", false
	}

	name := MemberName(*member)
	r.cache.Add(key, cachedName{name: name})
	return name, true
}
