package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const memoryBase = "https://storage.local"

// MemoryStore keeps objects in process; used by the "mock" driver and tests.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return memoryBase + "/" + key
}

func (m *MemoryStore) KeyFromURL(publicURL string) (string, error) {
	if !strings.HasPrefix(publicURL, memoryBase+"/") {
		return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
	}
	return strings.TrimPrefix(publicURL, memoryBase+"/"), nil
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
