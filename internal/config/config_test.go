package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/focusd.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/var/lib/focusd/store.db")
	t.Setenv("CORS_ORIGINS", " https://app.example.com , https://staging.example.com ,")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "30")

	cfg := Load()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/lib/focusd/store.db", cfg.DBPath)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}
