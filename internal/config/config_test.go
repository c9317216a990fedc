package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HU_LISTEN", "PORT", "HU_BASE_URL", "HU_BACKEND", "HU_ALLOWED_ORIGINS", "SUPABASE_URL", "VITE_SUPABASE_URL",
		"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY", "DATABASE_URL", "HU_SESSION_STORE",
		"REDIS_URL", "HU_SESSION_SECRET", "HU_COOKIE_SECURE", "HU_LOG_LEVEL", "HU_LOG_FILE", "HU_LOG_CONSOLE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingSupabaseIsWarningWithPlaceholders(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendSupabase, cfg.Backend)
	assert.Equal(t, PlaceholderSupabaseURL, cfg.Supabase.URL)
	assert.Equal(t, PlaceholderSupabaseKey, cfg.Supabase.AnonKey)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "SUPABASE_URL")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "hackersunity.yaml")
	yml := `
listen: ":9000"
backend: sqlite
database_url: /tmp/hu.db
session:
  store: cookie
  secret: "0123456789abcdef0123"
log_level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0600))

	t.Setenv("PORT", "7000")
	t.Setenv("VITE_SUPABASE_URL", "https://demo.supabase.co")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/hu.db", cfg.DatabaseURL)
	assert.Equal(t, StoreCookie, cfg.Session.Store)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "https://demo.supabase.co", cfg.Supabase.URL)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("HU_BASE_URL", "https://hackersunity.dev/")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://hackersunity.dev"}, cfg.Origins())

	t.Setenv("HU_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"postgres without dsn", func(c *Config) { c.Backend = BackendPostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Backend = BackendPostgres
			c.DatabaseURL = "postgres://localhost/hu"
		}, false},
		{"sqlite default path", func(c *Config) { c.Backend = "SQLite" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "firebase" }, true},
		{"redis without url", func(c *Config) { c.Session.Store = StoreRedis }, true},
		{"cookie with short secret", func(c *Config) {
			c.Session.Store = StoreCookie
			c.Session.Secret = "short"
		}, true},
		{"unknown store", func(c *Config) { c.Session.Store = "disk" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Listen = ":8181"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8181", loaded.Listen)
}
