package memory

import (
	"context"
	"sync"

	"github.com/mealmatch/planner/internal/ports/outbound"
)

// KeyValueStore keeps values in a map; contents are lost on restart
type KeyValueStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewKeyValueStore creates an empty store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{values: make(map[string][]byte)}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get returns a copy of the value under key
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set replaces the value under key
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
