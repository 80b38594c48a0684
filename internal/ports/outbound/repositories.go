// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/session"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// KeyValueStore is a string-keyed store of opaque values. Set fully
// overwrites; Get reports found=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SessionRepository persists ingredient selections between requests
type SessionRepository interface {
	Save(ctx context.Context, selection *session.Selection) error
	FindByID(ctx context.Context, id uuid.UUID) (*session.Selection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogSource loads the static reference data
type CatalogSource interface {
	Load(ctx context.Context) (*recipe.Catalog, error)
}

// CatalogProvider hands out the catalog currently in effect
type CatalogProvider interface {
	Current() *recipe.Catalog
}

// Photo is an uploaded fridge picture
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IngredientRecognizer detects catalog ingredients in a photo
type IngredientRecognizer interface {
	Recognize(ctx context.Context, photo Photo, catalog *recipe.Catalog) ([]string, error)
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(topic string, handler MessageHandler)
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error
