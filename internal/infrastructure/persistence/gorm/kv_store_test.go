package gorm_test

import (
	"context"
	"testing"

	gormstore "github.com/mealmatch/planner/internal/infrastructure/persistence/gorm"
	"github.com/mealmatch/planner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm/logger"
)

type KeyValueStoreTestSuite struct {
	suite.Suite
	store *gormstore.KeyValueStore
	ctx   context.Context
}

func (suite *KeyValueStoreTestSuite) SetupTest() {
	suite.store = gormstore.NewKeyValueStore(testutils.SetupSQLiteDB(suite.T()))
	suite.ctx = context.Background()
}

func (suite *KeyValueStoreTestSuite) TestGetMissing() {
	value, found, err := suite.store.Get(suite.ctx, "mealmatch_recipes")

	require.NoError(suite.T(), err)
	assert.False(suite.T(), found)
	assert.Nil(suite.T(), value)
}

func (suite *KeyValueStoreTestSuite) TestSetOverwrites() {
	// Arrange
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "mealmatch_recipes", []byte(`[{"id":1}]`)))

	// Act
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "mealmatch_recipes", []byte(`[{"id":2},{"id":1}]`)))
	value, found, err := suite.store.Get(suite.ctx, "mealmatch_recipes")

	// Assert
	require.NoError(suite.T(), err)
	assert.True(suite.T(), found)
	assert.JSONEq(suite.T(), `[{"id":2},{"id":1}]`, string(value))
}

func (suite *KeyValueStoreTestSuite) TestKeysAreIndependent() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "a", []byte("1")))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "b", []byte("2")))
	require.NoError(suite.T(), suite.store.Delete(suite.ctx, "a"))

	_, foundA, _ := suite.store.Get(suite.ctx, "a")
	b, foundB, _ := suite.store.Get(suite.ctx, "b")

	assert.False(suite.T(), foundA)
	assert.True(suite.T(), foundB)
	assert.Equal(suite.T(), []byte("2"), b)
}

func (suite *KeyValueStoreTestSuite) TestEmptyValue() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "empty", nil))

	value, found, err := suite.store.Get(suite.ctx, "empty")

	require.NoError(suite.T(), err)
	assert.True(suite.T(), found)
	assert.Empty(suite.T(), value)
	assert.NoError(suite.T(), suite.store.Ping(suite.ctx))
}

func TestKeyValueStoreSuite(t *testing.T) {
	suite.Run(t, new(KeyValueStoreTestSuite))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormstore.ParseLogLevel("info"))
	assert.Equal(t, logger.Warn, gormstore.ParseLogLevel("warn"))
	assert.Equal(t, logger.Silent, gormstore.ParseLogLevel(""))
}
