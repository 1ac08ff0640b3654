package repo

import (
	"context"
	"fmt"
	"sync"

	appErrors "chesslab/internal/errors"
)

// MemoryHistoryStorage keeps history in process memory. Contents are lost on
// restart.
type MemoryHistoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryHistoryStorage() *MemoryHistoryStorage {
	return &MemoryHistoryStorage{
		items: make(map[string][]byte),
	}
}

func (m *MemoryHistoryStorage) Save(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.items[key] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryHistoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	value, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrNotFound, key)
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}
