package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_DefaultsAndTrimming(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BACKEND_URL", " https://backend.example.com/ ")
	t.Setenv("ADMIN_IDS", "10,20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example.com", cfg.BackendURL)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, []int64{10, 20}, cfg.AdminIDs)
	assert.Equal(t, "10,20", cfg.AdminIDsString())
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
}

func TestLoad_BackendURLIsOptional(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.BackendURL)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", in)
	}
}
