package postgres_test

import (
	"context"
	"testing"

	"github.com/mealmatch/planner/internal/infrastructure/config"
	gormstore "github.com/mealmatch/planner/internal/infrastructure/persistence/gorm"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/migrations"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/postgres"
	"github.com/mealmatch/planner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_MigratesAndUpserts(t *testing.T) {
	dsn := testutils.StartPostgres(t)

	db, err := postgres.Open(config.StorageConfig{DSN: dsn, MaxOpenConns: 4}, zap.NewNop())
	require.NoError(t, err)

	store := gormstore.NewKeyValueStore(db)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "mealmatch_recipes", []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "mealmatch_recipes", []byte(`[{"id":1}]`)))

	value, found, err := store.Get(ctx, "mealmatch_recipes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":1}]`, string(value))

	var model gormstore.KeyValueModel
	require.NoError(t, db.First(&model, "key = ?", "mealmatch_recipes").Error)
	assert.Equal(t, int64(2), model.Version)
}

func TestMigrator_IsIdempotent(t *testing.T) {
	dsn := testutils.StartPostgres(t)

	require.NoError(t, migrations.Run(dsn, zap.NewNop()))
	require.NoError(t, migrations.Run(dsn, zap.NewNop()))

	m, err := migrations.New(dsn, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
