// goatplan serves the project-planning chat API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mandalnilabja/goatplan/internal/app"
	"github.com/mandalnilabja/goatplan/internal/chat"
	"github.com/mandalnilabja/goatplan/internal/config"
	"github.com/mandalnilabja/goatplan/internal/plan"
	"github.com/mandalnilabja/goatplan/internal/provider"
	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/tokenizer"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler"
)

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("goatplan"),
		kong.Description("Chat service that turns conversations into structured project plans"),
		kong.UsageOnError(),
	)

	if err := run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "goatplan: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	if cli.InitConfig {
		if err := config.EnsureConfigFile(); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	cli.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !provider.IsSupported(cfg.DefaultProvider) {
		return fmt.Errorf("invalid default provider %q (want one of %v)", cfg.DefaultProvider, provider.IDs())
	}

	logger := setupLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.Storage == config.StorageSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := storage.New(cfg.Storage, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	factoryOpts := []provider.FactoryOption{
		provider.WithCredentials(provider.NewCredentialResolver(cfg.Credentials)),
	}
	for _, id := range provider.IDs() {
		if u := cfg.BaseURL(id); u != "" {
			factoryOpts = append(factoryOpts, provider.WithBaseURL(id, u))
		}
	}
	for id := range cfg.Credentials {
		if !provider.IsSupported(id) {
			logger.Warn("ignoring credential for unknown provider", "provider", id)
		}
	}

	parseCache, err := plan.NewCache(cfg.ParseCacheBytes)
	if err != nil {
		return fmt.Errorf("failed to create parse cache: %w", err)
	}
	defer parseCache.Close()

	svc := chat.New(store, provider.NewFactory(factoryOpts...),
		chat.WithLogger(logger),
		chat.WithDefaultProvider(cfg.DefaultProvider),
		chat.WithParser(parseCache),
		chat.WithTokenCounter(tokenizer.New()),
	)

	repo := handler.NewRepo(svc, store, logger)
	router := app.NewRouter(repo, &app.RouterOptions{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printStartupBanner(cfg)
	return app.NewServer(cfg, router, logger).Run(ctx)
}
