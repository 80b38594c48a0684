package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/infrastructure/cache"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/memory"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type SessionRepositoryTestSuite struct {
	suite.Suite
	store *memory.CacheRepository
	repo  *cache.SessionRepository
	ctx   context.Context
}

func (suite *SessionRepositoryTestSuite) SetupTest() {
	suite.store = memory.NewCacheRepository(0)
	suite.repo = cache.NewSessionRepository(suite.store, time.Hour, zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *SessionRepositoryTestSuite) TearDownTest() {
	suite.store.Close()
}

func (suite *SessionRepositoryTestSuite) TestSaveAndFind() {
	// Arrange
	selection := session.New()
	selection.Add(
		recipe.SelectedIngredient{Name: "Chicken breast", Grams: 200, DisplayQuantity: 200, DisplayUnit: recipe.UnitGram},
		recipe.SelectedIngredient{Name: "Egg", Grams: 120, DisplayQuantity: 2, DisplayUnit: recipe.UnitPiece},
	)

	// Act
	require.NoError(suite.T(), suite.repo.Save(suite.ctx, selection))
	found, err := suite.repo.FindByID(suite.ctx, selection.ID)

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), selection.ID, found.ID)
	assert.Equal(suite.T(), selection.Items, found.Items)
	assert.Empty(suite.T(), found.Events())
}

func (suite *SessionRepositoryTestSuite) TestFindUnknown() {
	_, err := suite.repo.FindByID(suite.ctx, uuid.New())

	assert.ErrorIs(suite.T(), err, session.ErrSessionNotFound)
}

func (suite *SessionRepositoryTestSuite) TestEmptySelectionKeepsNonNilItems() {
	selection := session.New()
	require.NoError(suite.T(), suite.repo.Save(suite.ctx, selection))

	found, err := suite.repo.FindByID(suite.ctx, selection.ID)

	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), found.Items)
	assert.True(suite.T(), found.IsEmpty())
}

func (suite *SessionRepositoryTestSuite) TestDelete() {
	selection := session.New()
	require.NoError(suite.T(), suite.repo.Save(suite.ctx, selection))

	require.NoError(suite.T(), suite.repo.Delete(suite.ctx, selection.ID))
	_, err := suite.repo.FindByID(suite.ctx, selection.ID)

	assert.ErrorIs(suite.T(), err, session.ErrSessionNotFound)
}

func (suite *SessionRepositoryTestSuite) TestUnreadableSessionIsDropped() {
	id := uuid.New()
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "session:"+id.String(), []byte("{not json"), time.Hour))

	_, err := suite.repo.FindByID(suite.ctx, id)

	assert.ErrorIs(suite.T(), err, session.ErrSessionNotFound)
	exists, _ := suite.store.Exists(suite.ctx, "session:"+id.String())
	assert.False(suite.T(), exists)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositoryTestSuite))
}

func TestSessionRepository_UsesConfiguredTTL(t *testing.T) {
	store := new(mockCache)
	repo := cache.NewSessionRepository(store, 0, zap.NewNop())
	selection := session.New()

	store.On("Set", mock.Anything, "session:"+selection.ID.String(), mock.Anything, cache.DefaultSessionTTL).Return(nil)

	require.NoError(t, repo.Save(context.Background(), selection))
	store.AssertExpectations(t)
}

func TestSessionRepository_BackendFailure(t *testing.T) {
	store := new(mockCache)
	repo := cache.NewSessionRepository(store, time.Minute, zap.NewNop())
	id := uuid.New()

	store.On("Get", mock.Anything, "session:"+id.String()).Return(nil, errors.New("connection refused"))

	_, err := repo.FindByID(context.Background(), id)

	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrSessionNotFound)
	assert.NotErrorIs(t, err, outbound.ErrCacheMiss)
}
