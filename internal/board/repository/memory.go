package repository

import (
	"context"
	"sync"
)

// Memory is a map-backed Backend for tests and throwaway hosts.
type Memory struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, ownerID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[ownerID][key]
	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, ownerID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.data[ownerID]
	if !ok {
		owner = make(map[string]string)
		m.data[ownerID] = owner
	}
	owner[key] = value
	return nil
}
