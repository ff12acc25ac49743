package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort      string                    `toml:"server_port"`
	DefaultProvider string                    `toml:"default_provider"`
	Storage         string                    `toml:"storage"`
	DBPath          string                    `toml:"db_path"`
	LogLevel        string                    `toml:"log_level"`
	LogFormat       string                    `toml:"log_format"`
	ParseCacheBytes int64                     `toml:"parse_cache_bytes"`
	Providers       map[string]ProviderConfig `toml:"providers"`
	Credentials     map[string]string         `toml:"credentials"`
}

// ProviderConfig overrides provider connection settings.
type ProviderConfig struct {
	BaseURL string `toml:"base_url"`
}

// ConfigPath returns the path to the config file (~/.goatplan/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from a TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Goatplan Configuration
# server_port = ":8080"
# default_provider = "openai"    # openai | anthropic | gemini
# storage = "memory"             # memory | sqlite
# db_path = "~/.goatplan/goatplan.db"
# log_level = "info"             # debug | info | warn | error
# log_format = "text"            # text | json
# parse_cache_bytes = 67108864

# Point a provider at a proxy or a local mock
# [providers.openai]
# base_url = "https://api.openai.com/v1"

# API keys; OPENAI_API_KEY, ANTHROPIC_API_KEY and GEMINI_API_KEY take precedence
# [credentials]
# openai = "sk-..."
# anthropic = "sk-ant-..."
# gemini = "..."
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
