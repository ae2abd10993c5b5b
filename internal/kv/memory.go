// ABOUTME: In-memory implementation of the KV interface for tests and ephemeral runs
// ABOUTME: A mutex-guarded map; values are copied on the way in and out

package kv

import (
	"context"
	"sync"
)

// Memory implements KV with a process-local map. Nothing is persisted.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Close is a no-op for the memory driver.
func (m *Memory) Close() error {
	return nil
}
