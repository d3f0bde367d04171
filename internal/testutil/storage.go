package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hot100/internal/storage"
)

// MemStorage is an in-memory storage.Storage
type MemStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemStorage creates an empty MemStorage
func NewMemStorage() *MemStorage {
	return &MemStorage{objects: make(map[string][]byte)}
}

func (m *MemStorage) Store(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemStorage) Retrieve(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemStorage) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := []string{}
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Names lists every stored object
func (m *MemStorage) Names() []string {
	names, _ := m.List(context.Background(), "")
	return names
}
