package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds application configuration loaded from environment and file.
// Priority: CLI flags → Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// DefaultProvider is used when neither a message nor its chat names one
	DefaultProvider string

	// Storage selects the chat store: "memory" (default) or "sqlite"
	Storage string

	// DBPath is the SQLite database file, used when Storage is "sqlite"
	DBPath string

	LogLevel  string
	LogFormat string

	// ParseCacheBytes bounds the parse cache by total input size
	ParseCacheBytes int64

	// Providers holds per-provider overrides keyed by provider id
	Providers map[string]ProviderConfig

	// Credentials holds API keys from the config file keyed by provider id.
	// Environment variables take precedence.
	Credentials map[string]string
}

// Load reads configuration from the file at path (ConfigPath() when empty)
// and environment variables. Environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	fileConfig, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	cacheBytes, err := getEnvIntOrFile("PARSE_CACHE_BYTES", fileConfig.ParseCacheBytes, 64<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:      getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		DefaultProvider: getEnvOrFile("DEFAULT_PROVIDER", fileConfig.DefaultProvider, "openai"),
		Storage:         getEnvOrFile("STORAGE_BACKEND", fileConfig.Storage, StorageMemory),
		DBPath:          getEnvOrFile("DB_PATH", fileConfig.DBPath, DBPath()),
		LogLevel:        getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:       getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
		ParseCacheBytes: cacheBytes,
		Providers:       fileConfig.Providers,
		Credentials:     fileConfig.Credentials,
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Credentials == nil {
		cfg.Credentials = make(map[string]string)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage backend %q (want %s or %s)", c.Storage, StorageMemory, StorageSQLite)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}
	if c.ParseCacheBytes <= 0 {
		return fmt.Errorf("parse cache size must be positive, got %d", c.ParseCacheBytes)
	}
	return nil
}

// BaseURL returns the configured base URL override for a provider, or "".
func (c *Config) BaseURL(provider string) string {
	return c.Providers[provider].BaseURL
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue, defaultValue int64) (int64, error) {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return n, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return defaultValue, nil
}
