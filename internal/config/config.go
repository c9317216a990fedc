package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	PlaceholderSupabaseURL = "https://placeholder.supabase.co"
	PlaceholderSupabaseKey = "placeholder-key"
)

// Backend names accepted in Config.Backend
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Session store drivers accepted in Session.Store
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreCookie = "cookie"
)

// Config holds server settings
type Config struct {
	Listen  string `yaml:"listen" json:"listen"`
	BaseURL string `yaml:"base_url" json:"base_url"` // Used for share links and ICS URLs
	Backend string `yaml:"backend" json:"backend"`   // supabase, postgres or sqlite

	// Origins allowed to make credentialed cross-origin requests. Empty means BaseURL only.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	Supabase    SupabaseConfig `yaml:"supabase" json:"supabase"`
	DatabaseURL string         `yaml:"database_url" json:"database_url"` // DSN for postgres, file path for sqlite

	Session SessionConfig `yaml:"session" json:"session"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	// Warnings collected while loading; reported once the logger is up
	Warnings []string `yaml:"-" json:"-"`
}

// SupabaseConfig holds the hosted backend endpoint and public key
type SupabaseConfig struct {
	URL     string `yaml:"url" json:"url"`
	AnonKey string `yaml:"anon_key" json:"-"`
}

// SessionConfig controls where sessions are kept
type SessionConfig struct {
	Store        string `yaml:"store" json:"store"` // memory, redis or cookie
	RedisURL     string `yaml:"redis_url" json:"redis_url"`
	Secret       string `yaml:"secret" json:"-"` // Seals cookie-stored sessions
	CookieSecure bool   `yaml:"cookie_secure" json:"cookie_secure"`
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	return &Config{
		Listen:     ":8080",
		BaseURL:    "http://localhost:8080",
		Backend:    BackendSupabase,
		LogLevel:   "INFO",
		LogConsole: true,
		Session: SessionConfig{
			Store: StoreMemory,
		},
	}
}

// getEnv gets the first set environment variable or returns a default value
func getEnv(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

// Load reads the YAML file at path (optional), then .env files, then the environment.
// A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Existing environment variables win over .env files
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = getEnv(c.Listen, "HU_LISTEN")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HU_LISTEN") == "" {
		c.Listen = ":" + port
	}
	c.BaseURL = getEnv(c.BaseURL, "HU_BASE_URL")
	c.Backend = getEnv(c.Backend, "HU_BACKEND")
	if origins := os.Getenv("HU_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.Supabase.URL = getEnv(c.Supabase.URL, "SUPABASE_URL", "VITE_SUPABASE_URL")
	c.Supabase.AnonKey = getEnv(c.Supabase.AnonKey, "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY")
	c.DatabaseURL = getEnv(c.DatabaseURL, "DATABASE_URL")
	c.Session.Store = getEnv(c.Session.Store, "HU_SESSION_STORE")
	c.Session.RedisURL = getEnv(c.Session.RedisURL, "REDIS_URL")
	c.Session.Secret = getEnv(c.Session.Secret, "HU_SESSION_SECRET")
	c.Session.CookieSecure = getEnv(boolString(c.Session.CookieSecure), "HU_COOKIE_SECURE") == "true"
	c.LogLevel = getEnv(c.LogLevel, "HU_LOG_LEVEL")
	c.LogFile = getEnv(c.LogFile, "HU_LOG_FILE")
	c.LogConsole = getEnv(boolString(c.LogConsole), "HU_LOG_CONSOLE") == "true"
}

// splitList splits a comma-separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Origins returns the CORS allow-list, defaulting to the public origin
func (c *Config) Origins() []string {
	if len(c.AllowedOrigins) > 0 {
		return c.AllowedOrigins
	}
	return []string{strings.TrimRight(c.BaseURL, "/")}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Validate checks the backend and store choices. Missing hosted-backend credentials are
// only a warning: the server still starts and every remote call fails.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(c.Backend)
	c.Session.Store = strings.ToLower(c.Session.Store)

	switch c.Backend {
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			c.Warnings = append(c.Warnings,
				"Supabase environment variables not found. Set SUPABASE_URL and SUPABASE_ANON_KEY (or a .env.local file); requests will fail")
			if c.Supabase.URL == "" {
				c.Supabase.URL = PlaceholderSupabaseURL
			}
			if c.Supabase.AnonKey == "" {
				c.Supabase.AnonKey = PlaceholderSupabaseKey
			}
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the %s backend", c.Backend)
		}
	case BackendSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "hackersunity.db"
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis session store")
		}
	case StoreCookie:
		if len(c.Session.Secret) < 16 {
			return fmt.Errorf("session secret must be at least 16 characters for the cookie session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	return nil
}

// Save writes the config as YAML to path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
