package storage

import (
	"context"
	"sync"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// Memory keeps the document in process. Nothing survives a restart.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, crew.ErrNoDocument
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
