package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mandalnilabja/goatplan/internal/config"
)

func setupLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel maps a level name to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintln(os.Stderr, "🐐 Goatplan - Project Planning Chat Service")
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Chats API:  http://localhost%s/chats\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Usage API:  http://localhost%s/api/usage\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Provider:   %s (default)\n", cfg.DefaultProvider)
	fmt.Fprintf(os.Stderr, "Storage:    %s\n", cfg.Storage)
	if cfg.Storage == config.StorageSQLite {
		fmt.Fprintf(os.Stderr, "Database:   %s\n", cfg.DBPath)
	}
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
