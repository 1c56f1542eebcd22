package crew

import (
	"context"
	"errors"
)

var errNoChange = errors.New("no change")

// Setup owns the per-community configuration and the username cache.
type Setup struct {
	store *Store
}

func NewSetup(store *Store) *Setup {
	return &Setup{store: store}
}

// Configure stores cfg for communityID. Message refs of boards whose
// channel did not change are kept.
func (s *Setup) Configure(ctx context.Context, communityID string, cfg Config) (Config, error) {
	if cfg.OperationRoleID == "" || cfg.OperationChannelID == "" || cfg.LeaderboardChannelID == "" {
		return Config{}, Validation("Operation role, operation channel and leaderboard channel are required.")
	}

	var stored Config
	err := s.store.Update(ctx, communityID, func(c *Community) error {
		next := cfg
		if prev := c.Config; prev != nil {
			if prev.StatusChannelID == next.StatusChannelID && next.StatusMessageID == "" {
				next.StatusMessageID = prev.StatusMessageID
			}
			if prev.LeaderboardChannelID == next.LeaderboardChannelID && next.LeaderboardMessageID == "" {
				next.LeaderboardMessageID = prev.LeaderboardMessageID
			}
		}
		if next.StatusChannelID == "" {
			next.StatusMessageID = ""
		}
		c.Config = &next
		stored = next
		return nil
	})
	return stored, err
}

// Config returns communityID's configuration or ErrNotConfigured.
func (s *Setup) Config(ctx context.Context, communityID string) (Config, error) {
	c, err := s.store.Snapshot(ctx, communityID)
	if err != nil {
		return Config{}, err
	}
	if c.Config == nil {
		return Config{}, ErrNotConfigured
	}
	return *c.Config, nil
}

// RecordStatusMessage remembers the message the status board lives in.
func (s *Setup) RecordStatusMessage(ctx context.Context, communityID, messageID string) error {
	return s.updateConfig(ctx, communityID, func(cfg *Config) bool {
		if cfg.StatusMessageID == messageID {
			return false
		}
		cfg.StatusMessageID = messageID
		return true
	})
}

// RecordLeaderboardMessage remembers the message the leaderboard lives in.
func (s *Setup) RecordLeaderboardMessage(ctx context.Context, communityID, messageID string) error {
	return s.updateConfig(ctx, communityID, func(cfg *Config) bool {
		if cfg.LeaderboardMessageID == messageID {
			return false
		}
		cfg.LeaderboardMessageID = messageID
		return true
	})
}

func (s *Setup) updateConfig(ctx context.Context, communityID string, fn func(cfg *Config) bool) error {
	err := s.store.Update(ctx, communityID, func(c *Community) error {
		if c.Config == nil {
			return ErrNotConfigured
		}
		if !fn(c.Config) {
			return errNoChange
		}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// RememberName writes a member's display name through to the cache.
// Unchanged names do not trigger a flush.
func (s *Setup) RememberName(ctx context.Context, communityID, memberID, displayName string) error {
	err := s.store.Update(ctx, communityID, func(c *Community) error {
		if displayName == "" || c.Usernames[memberID] == displayName {
			return errNoChange
		}
		c.RememberName(memberID, displayName)
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}
