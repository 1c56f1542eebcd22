package crew

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errDiskFull = errors.New("disk full")

type memBackend struct {
	mu         sync.Mutex
	data       []byte
	readErr    error
	failWrites bool
	writes     int
}

func (b *memBackend) Name() string { return "test" }

func (b *memBackend) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readErr != nil {
		return nil, b.readErr
	}
	if b.data == nil {
		return nil, ErrNoDocument
	}
	return append([]byte(nil), b.data...), nil
}

func (b *memBackend) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrites {
		return errDiskFull
	}
	b.writes++
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *memBackend) setFailWrites(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = fail
}

type fixture struct {
	clock   *fakeClock
	backend *memBackend
	store   *Store
	shifts  *ShiftTracker
	ops     *OperationTracker
	setup   *Setup
}

func newFixture() *fixture {
	clock := newFakeClock()
	backend := &memBackend{}
	store := NewStore(backend)
	return &fixture{
		clock:   clock,
		backend: backend,
		store:   store,
		shifts:  NewShiftTracker(store, clock),
		ops:     NewOperationTracker(store, clock, nil),
		setup:   NewSetup(store),
	}
}

func intPtr(v int) *int {
	return &v
}
