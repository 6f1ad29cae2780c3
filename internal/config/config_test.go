package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./users.db", cfg.UsersDatabasePath)
	assert.Equal(t, "./notes.db", cfg.NotesDatabasePath)
	assert.Equal(t, "./events.db", cfg.EventsDatabasePath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "0 3 * * *", cfg.EventPruneCron)
	assert.Equal(t, 10*time.Minute, cfg.UserCacheTTL)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30*24*time.Hour, cfg.EventRetention())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("NOTES_DATABASE_PATH", "/var/lib/geonotes/notes.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("EVENT_RETENTION_DAYS", "7")
	t.Setenv("USER_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/geonotes/notes.db", cfg.NotesDatabasePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.EventRetention())
	assert.Equal(t, 30*time.Second, cfg.UserCacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"zero retention", "EVENT_RETENTION_DAYS", "0"},
		{"bad cron", "EVENT_PRUNE_CRON", "every night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
