// Package library provides the saved recipe log on top of a key-value store.
// The whole log lives under one fixed key and every change is a full
// read-modify-write of that value.
package library

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/saved"
	"github.com/mealmatch/planner/internal/domain/shared"
	"github.com/mealmatch/planner/internal/ports/inbound"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/mealmatch/planner/pkg/errors"
	"go.uber.org/zap"
)

// DefaultKey is the store key holding the serialized log
const DefaultKey = "mealmatch_recipes"

// Service implements the saved recipe use cases
type Service struct {
	store  outbound.KeyValueStore
	key    string
	events outbound.MessageBus
	now    func() time.Time
	logger *zap.Logger

	// mu serializes read-modify-write cycles on key
	mu sync.Mutex
}

// Option customizes a Service
type Option func(*Service)

// WithClock overrides the time source used for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithEvents publishes saved/removed events on bus
func WithEvents(bus outbound.MessageBus) Option {
	return func(s *Service) {
		s.events = bus
	}
}

// NewService creates a saved recipe service storing its log under key
func NewService(store outbound.KeyValueStore, key string, logger *zap.Logger, opts ...Option) *Service {
	if key == "" {
		key = DefaultKey
	}
	s := &Service{
		store:  store,
		key:    key,
		now:    time.Now,
		logger: logger.Named("library-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ inbound.LibraryService = (*Service)(nil)

// SaveRecipe prepends r to the log under a fresh, collision-free id
func (s *Service) SaveRecipe(ctx context.Context, r recipe.Recipe) (*inbound.SavedRecipeDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entry := saved.NewEntry(entries, r, s.now())
	if err := s.write(ctx, saved.Prepend(entries, entry)); err != nil {
		return nil, err
	}

	s.logger.Info("Recipe saved",
		zap.Int64("saved_id", entry.ID),
		zap.String("title", r.Title),
	)
	s.publish(ctx, saved.RecipeSavedEvent{EntryID: entry.ID, Title: r.Title, SavedAt: entry.CreatedAt})

	dto := entryToDTO(entry)
	return &dto, nil
}

// ListSaved returns the log in stored order, newest first
func (s *Service) ListSaved(ctx context.Context) ([]inbound.SavedRecipeDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]inbound.SavedRecipeDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToDTO(e))
	}
	return out, nil
}

// GetSaved returns one saved entry
func (s *Service) GetSaved(ctx context.Context, id int64) (*inbound.SavedRecipeDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := saved.Find(entries, id)
	if !ok {
		return nil, errors.NewSavedRecipeNotFoundError(id)
	}
	dto := entryToDTO(entry)
	return &dto, nil
}

// RemoveSaved drops the entry with id. A missing id is reported and the
// stored value is left as is.
func (s *Service) RemoveSaved(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	remaining, found := saved.Remove(entries, id)
	if !found {
		return errors.NewSavedRecipeNotFoundError(id)
	}
	if err := s.write(ctx, remaining); err != nil {
		return err
	}

	s.logger.Info("Saved recipe removed", zap.Int64("saved_id", id))
	s.publish(ctx, saved.RecipeRemovedEvent{EntryID: id, RemovedAt: s.now()})
	return nil
}

// load reads the log; corrupt content is logged and treated as empty
func (s *Service) load(ctx context.Context) ([]saved.Entry, error) {
	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, errors.NewStorageError("read saved recipes", err)
	}
	if !found {
		return []saved.Entry{}, nil
	}

	entries, err := saved.Decode(raw)
	if err != nil {
		s.logger.Warn("Discarding malformed saved recipes",
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
	return entries, nil
}

func (s *Service) write(ctx context.Context, entries []saved.Entry) error {
	raw, err := saved.Encode(entries)
	if err != nil {
		return errors.Wrap(err, "failed to encode saved recipes")
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return errors.NewStorageError("write saved recipes", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := outbound.Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Payload:   payload,
		Timestamp: event.OccurredAt(),
	}
	if err := s.events.Publish(ctx, event.EventName(), msg); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}
}

func entryToDTO(e saved.Entry) inbound.SavedRecipeDTO {
	return inbound.SavedRecipeDTO{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Recipe:    e.Recipe,
	}
}
