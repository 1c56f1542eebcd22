package crew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/groundcrew/crewbot/crewbot/logger"
)

// ErrNoDocument is returned by a Backend that has nothing stored yet.
var ErrNoDocument = errors.New("no state document")

// Backend persists the serialized state document as a whole.
type Backend interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FlushHook observes every flush attempt.
type FlushHook func(backend string, took time.Duration, err error)

type StoreOption func(*Store)

// WithFlushHook registers a hook called after every flush.
func WithFlushHook(hook FlushHook) StoreOption {
	return func(s *Store) {
		s.hooks = append(s.hooks, hook)
	}
}

// Store owns the State. Every read-modify-flush sequence on a community
// runs under that community's lock; the document lock only covers
// install, encode and write.
type Store struct {
	backend Backend
	hooks   []FlushHook

	docMu  sync.Mutex
	state  *State
	loaded bool

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the backend name.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Load reads the document if it has not been read yet. An absent or
// malformed document yields an empty state; a failing backend is an error.
func (s *Store) Load(ctx context.Context) error {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := s.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoDocument):
		logger.LogStore(slog.LevelInfo, "No stored state, starting empty", s.backend.Name())
		s.state = NewState()
	case err != nil:
		return persistence(fmt.Errorf("read %s: %w", s.backend.Name(), err))
	default:
		s.state = decodeState(data, s.backend.Name())
	}

	s.loaded = true
	return nil
}

func decodeState(data []byte, backend string) *State {
	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		logger.LogStore(slog.LevelError, "Stored state is malformed, starting empty", backend,
			slog.Any("error", err))
		return NewState()
	}
	st.normalize()
	return st
}

func (s *Store) lockFor(communityID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[communityID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[communityID] = mu
	}
	return mu
}

// Update runs fn on a working copy of communityID's data and flushes the
// result. If fn fails nothing changes; if the flush fails the in-memory
// state is rolled back and a persistence error is returned.
func (s *Store) Update(ctx context.Context, communityID string, fn func(c *Community) error) error {
	mu := s.lockFor(communityID)
	mu.Lock()
	defer mu.Unlock()

	s.docMu.Lock()
	if err := s.loadLocked(ctx); err != nil {
		s.docMu.Unlock()
		return err
	}
	previous := s.state.community(communityID)
	s.docMu.Unlock()

	working := previous.clone()
	if err := fn(working); err != nil {
		return err
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	s.state.install(working)
	if err := s.flushLocked(ctx); err != nil {
		s.state.install(previous)
		return err
	}
	return nil
}

// Snapshot returns a deep copy of communityID's data, read under the
// community lock so it never observes a half-applied update.
func (s *Store) Snapshot(ctx context.Context, communityID string) (*Community, error) {
	mu := s.lockFor(communityID)
	mu.Lock()
	defer mu.Unlock()

	s.docMu.Lock()
	defer s.docMu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.state.community(communityID), nil
}

// Document returns a deep copy of the whole state.
func (s *Store) Document(ctx context.Context) (*State, error) {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.state.Clone(), nil
}

// Communities lists every community with stored state.
func (s *Store) Communities(ctx context.Context) ([]string, error) {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.state.CommunityIDs(), nil
}

// Replace swaps in a whole new document and flushes it. Used by imports.
func (s *Store) Replace(ctx context.Context, st *State) error {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	next := st.Clone()
	next.normalize()

	previous, wasLoaded := s.state, s.loaded
	s.state, s.loaded = next, true
	if err := s.flushLocked(ctx); err != nil {
		s.state, s.loaded = previous, wasLoaded
		return err
	}
	return nil
}

func (s *Store) flushLocked(ctx context.Context) error {
	start := time.Now()
	s.state.Version = SchemaVersion

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err == nil {
		err = s.backend.Write(ctx, data)
	}
	took := time.Since(start)

	for _, hook := range s.hooks {
		hook(s.backend.Name(), took, err)
	}

	if err != nil {
		logger.LogStore(slog.LevelError, "Failed to flush state", s.backend.Name(),
			slog.Duration("took", took),
			slog.Any("error", err))
		return persistence(err)
	}

	logger.LogStore(slog.LevelDebug, "State flushed", s.backend.Name(),
		slog.Int("bytes", len(data)),
		slog.Duration("took", took))
	return nil
}

func (c *Community) clone() *Community {
	out := &Community{
		ID:        c.ID,
		Shifts:    make(map[string]*Shift, len(c.Shifts)),
		Usernames: make(map[string]string, len(c.Usernames)),
		Totals:    c.Totals.Clone(),
	}
	if c.Config != nil {
		cfg := *c.Config
		out.Config = &cfg
	}
	if c.Operation != nil {
		out.Operation = c.Operation.clone()
	}
	for k, v := range c.Shifts {
		out.Shifts[k] = v.clone()
	}
	for k, v := range c.Usernames {
		out.Usernames[k] = v
	}
	return out
}
