package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local store. Instances behind a load balancer do not share it.
type Memory[T any] struct {
	mu      sync.Mutex
	entries map[string]Entry[T]
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{entries: make(map[string]Entry[T])}
}

func (m *Memory[T]) Get(_ context.Context, key string) (Entry[T], bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *Memory[T]) Set(_ context.Context, key string, entry Entry[T]) error {
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory[T]) Sweep(_ context.Context, cutoff time.Time) error {
	limit := cutoff.UnixMilli()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.Timestamp < limit {
			delete(m.entries, k)
		}
	}
	return nil
}

// Len is the number of entries currently held.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
