package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
)

// KeyValueStore implements outbound.KeyValueStore with plain Redis
// strings that never expire
type KeyValueStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKeyValueStore creates a new key-value store
func NewKeyValueStore(client redis.UniversalClient, prefix string) *KeyValueStore {
	return &KeyValueStore{client: client, prefix: prefix}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves the value under key
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the value under key
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection
func (s *KeyValueStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
