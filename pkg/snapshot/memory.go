package snapshot

import (
	"context"
	"os"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Reading a slot that was
// never written fails like a missing file.
type MemoryStore struct {
	codec
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codec{&memoryBlobs{data: map[Kind][]byte{}}}}
}

type memoryBlobs struct {
	mu   sync.RWMutex
	data map[Kind][]byte
}

func (m *memoryBlobs) get(_ context.Context, kind Kind) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[kind]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memoryBlobs) put(_ context.Context, kind Kind, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[kind] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Location(kind Kind) string { return "memory:" + string(kind) }

func (m *memoryBlobs) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
