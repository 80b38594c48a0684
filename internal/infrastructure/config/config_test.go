package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: MealMatch\n"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "mealmatch_recipes", cfg.Storage.SavedKey)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.CleanupInterval)
	assert.Equal(t, "data/ingredients.json", cfg.Catalog.IngredientsPath)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
storage:
  driver: memory
catalog:
  watch: true
`)
	t.Setenv("MEALMATCH_SERVER_PORT", "9100")
	t.Setenv("MEALMATCH_APP_ENVIRONMENT", "production")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Catalog.Watch)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:9100", cfg.Address())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Name: "MealMatch"},
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Driver: DriverSQLite, Path: "x.db", SavedKey: "k"},
			Session: SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"blank saved key", func(c *Config) { c.Storage.SavedKey = " " }},
		{"no session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"no session sweep", func(c *Config) { c.Session.CleanupInterval = 0 }},
		{"rate limit without rate", func(c *Config) { c.RateLimit.Enable = true }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
