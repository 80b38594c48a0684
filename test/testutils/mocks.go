// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockKeyValueStore provides a mock implementation of KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

// Get retrieves a value
func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	var value []byte
	if v := args.Get(0); v != nil {
		value = v.([]byte)
	}
	return value, args.Bool(1), args.Error(2)
}

// Set stores a value
func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// InMemoryKeyValueStore is a goroutine-safe map-backed KeyValueStore
type InMemoryKeyValueStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	Writes int
}

// NewInMemoryKeyValueStore creates an empty store
func NewInMemoryKeyValueStore() *InMemoryKeyValueStore {
	return &InMemoryKeyValueStore{values: make(map[string][]byte)}
}

// Get retrieves a value
func (s *InMemoryKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores a value
func (s *InMemoryKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	s.Writes++
	return nil
}

// MockSessionRepository provides a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

// Save saves a selection
func (m *MockSessionRepository) Save(ctx context.Context, selection *session.Selection) error {
	args := m.Called(ctx, selection)
	return args.Error(0)
}

// FindByID finds a selection by ID
func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Selection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Selection), args.Error(1)
}

// Delete deletes a selection
func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// InMemorySessionRepository keeps selections in a map
type InMemorySessionRepository struct {
	mu         sync.Mutex
	selections map[uuid.UUID]*session.Selection
}

// NewInMemorySessionRepository creates an empty repository
func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{selections: make(map[uuid.UUID]*session.Selection)}
}

// Save saves a copy of selection
func (r *InMemorySessionRepository) Save(ctx context.Context, selection *session.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *selection
	cp.Items = selection.Snapshot()
	r.selections[selection.ID] = &cp
	return nil
}

// FindByID returns a copy of the stored selection
func (r *InMemorySessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.selections[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	cp := &session.Selection{ID: s.ID, Items: s.Snapshot(), CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
	return cp, nil
}

// Delete removes a selection
func (r *InMemorySessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.selections, id)
	return nil
}

// MockRecognizer provides a mock implementation of IngredientRecognizer
type MockRecognizer struct {
	mock.Mock
}

// Recognize returns the configured names
func (m *MockRecognizer) Recognize(ctx context.Context, photo outbound.Photo, catalog *recipe.Catalog) ([]string, error) {
	args := m.Called(ctx, photo, catalog)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockMessageBus provides a mock implementation of MessageBus
type MockMessageBus struct {
	mock.Mock
}

// Publish publishes a message
func (m *MockMessageBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

// Subscribe registers a handler
func (m *MockMessageBus) Subscribe(topic string, handler outbound.MessageHandler) {
	m.Called(topic, handler)
}

// StaticCatalogProvider always returns the same catalog
type StaticCatalogProvider struct {
	Catalog *recipe.Catalog
}

// Current returns the catalog
func (p StaticCatalogProvider) Current() *recipe.Catalog {
	return p.Catalog
}
