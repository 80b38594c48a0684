// Package cache stores ingredient selections in a TTL cache between requests
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// DefaultSessionTTL applies when no ttl is configured
const DefaultSessionTTL = 24 * time.Hour

const sessionKeyPrefix = "session:"

// SessionRepository implements outbound.SessionRepository over any
// CacheRepository. Every save refreshes the TTL so active sessions stay alive.
type SessionRepository struct {
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository creates a session repository
func NewSessionRepository(cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRepository{
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("session-cache"),
	}
}

var _ outbound.SessionRepository = (*SessionRepository)(nil)

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

// Save serializes the selection under its id
func (r *SessionRepository) Save(ctx context.Context, selection *session.Selection) error {
	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.cache.Set(ctx, sessionKey(selection.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}

	r.logger.Debug("Session cached",
		zap.String("session_id", selection.ID.String()),
		zap.Int("items", len(selection.Items)),
	)
	return nil
}

// FindByID loads a selection; an expired or unknown id yields session.ErrSessionNotFound
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Selection, error) {
	data, err := r.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, outbound.ErrCacheMiss) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var selection session.Selection
	if err := json.Unmarshal(data, &selection); err != nil {
		r.logger.Warn("Dropping unreadable session",
			zap.String("session_id", id.String()),
			zap.Error(err),
		)
		_ = r.cache.Delete(ctx, sessionKey(id))
		return nil, session.ErrSessionNotFound
	}
	if selection.Items == nil {
		selection.Items = []recipe.SelectedIngredient{}
	}
	return &selection, nil
}

// Delete forgets a selection
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
