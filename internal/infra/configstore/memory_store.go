package configstore

import (
	"context"
	"sync"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
)

// MemoryStore keeps gateway settings for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	settings gateway.StoredSettings
	ok       bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements gateway.Store.
func (s *MemoryStore) Load(_ context.Context) (gateway.StoredSettings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.ok, nil
}

// Save implements gateway.Store.
func (s *MemoryStore) Save(_ context.Context, settings gateway.StoredSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings, s.ok = settings, true
	return nil
}

var _ gateway.Store = (*MemoryStore)(nil)
