package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewCacheRepository(0)
	repo.now = func() time.Time { return clock }
	defer repo.Close()

	t.Run("SetThenGet", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "session:a", []byte("v1"), time.Minute))

		v, err := repo.Get(ctx, "session:a")

		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), v)
		ok, _ := repo.Exists(ctx, "session:a")
		assert.True(t, ok)
	})

	t.Run("MissingKey_IsCacheMiss", func(t *testing.T) {
		_, err := repo.Get(ctx, "nope")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("ExpiredKey_IsCacheMiss", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "session:b", []byte("v"), time.Second))
		clock = clock.Add(2 * time.Second)

		_, err := repo.Get(ctx, "session:b")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		assert.NotContains(t, repo.keys("session:"), "session:b")

		repo.sweep()
		repo.mutex.RLock()
		_, present := repo.data["session:b"]
		repo.mutex.RUnlock()
		assert.False(t, present)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, repo.Delete(ctx, "k"))

		ok, err := repo.Exists(ctx, "k")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCacheRepository_SweepsOnInterval(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(5 * time.Millisecond)
	defer repo.Close()

	for _, key := range []string{"session:a", "session:b", "session:c"} {
		require.NoError(t, repo.Set(ctx, key, []byte("v"), time.Millisecond))
	}
	require.NoError(t, repo.Set(ctx, "session:live", []byte("v"), time.Hour))

	assert.Eventually(t, func() bool {
		repo.mutex.RLock()
		defer repo.mutex.RUnlock()
		return len(repo.data) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"session:live"}, repo.keys("session:"))
}

func TestKeyValueStore(t *testing.T) {
	ctx := context.Background()
	store := NewKeyValueStore()

	_, found, err := store.Get(ctx, "mealmatch_recipes")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`[]`)
	require.NoError(t, store.Set(ctx, "mealmatch_recipes", value))
	value[0] = 'x'

	got, found, err := store.Get(ctx, "mealmatch_recipes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), got)
}
