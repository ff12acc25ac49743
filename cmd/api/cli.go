package main

import (
	"github.com/mandalnilabja/goatplan/internal/config"
)

// CLI holds command-line flags. Non-empty flags override env vars and the
// config file.
type CLI struct {
	Config          string `short:"c" help:"Path to config file (default ~/.goatplan/config.toml)" type:"path"`
	Port            string `short:"p" help:"Address to listen on, e.g. :8080"`
	DefaultProvider string `help:"Provider used when a chat names none (openai, anthropic, gemini)"`
	Storage         string `help:"Chat store backend (memory, sqlite)"`
	DBPath          string `name:"db-path" help:"SQLite database path" type:"path"`
	LogLevel        string `help:"Log level (debug, info, warn, error)"`
	LogFormat       string `help:"Log format (text, json)"`
	InitConfig      bool   `help:"Write a commented config file to the data directory if none exists"`
}

// apply overlays non-empty flags onto cfg.
func (c *CLI) apply(cfg *config.Config) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{c.Port, &cfg.ServerPort},
		{c.DefaultProvider, &cfg.DefaultProvider},
		{c.Storage, &cfg.Storage},
		{c.DBPath, &cfg.DBPath},
		{c.LogLevel, &cfg.LogLevel},
		{c.LogFormat, &cfg.LogFormat},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.target = o.flag
		}
	}
}
