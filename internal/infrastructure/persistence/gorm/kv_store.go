package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealmatch/planner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore implements outbound.KeyValueStore on a SQL table
type KeyValueStore struct {
	db *gorm.DB
}

// NewKeyValueStore creates a new key-value store
func NewKeyValueStore(db *gorm.DB) *KeyValueStore {
	return &KeyValueStore{db: db}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves the value stored under key
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var model KeyValueModel

	result := s.db.WithContext(ctx).First(&model, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, result.Error)
	}

	return model.Value, true, nil
}

// Set replaces the value under key in a single upsert
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	model := KeyValueModel{Key: key, Value: value}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"version":    gorm.Expr("key_values.version + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("set %s: %w", key, result.Error)
	}

	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Delete(&KeyValueModel{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", key, result.Error)
	}
	return nil
}

// Ping checks the underlying connection
func (s *KeyValueStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
