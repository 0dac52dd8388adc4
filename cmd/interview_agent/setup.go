package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/interview-practice/internal/backend"
	"github.com/jonathan/interview-practice/internal/config"
	"github.com/jonathan/interview-practice/internal/db"
	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/session"
	"github.com/jonathan/interview-practice/internal/storage"
)

// loadConfig resolves the effective configuration: config file, then
// environment, then the persistent flags, with defaults filling the rest.
func loadConfig(opts *globalOptions) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return config.Config{}, err
	}
	if opts.backendURL != "" {
		cfg.BackendURL = opts.backendURL
	}
	if opts.storageDir != "" {
		cfg.StorageDir = opts.storageDir
		cfg.DatabaseURL = ""
	}
	if opts.verbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openResults opens PostgreSQL storage when a database URL is configured and
// file storage otherwise. The returned func releases it.
func openResults(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		slog.Debug("using database storage")
		return database, database.Close, nil
	}

	files, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("using file storage", "dir", files.Dir())
	return files, func() {}, nil
}

func newBackendClient(cfg config.Config) *backend.Client {
	return backend.NewClient(cfg.BackendURL, backend.WithLogger(slog.Default()))
}

func newController(cfg config.Config, client session.Backend, store *interview.Store, results storage.Store) *session.Controller {
	return session.New(client, store, results, session.Options{
		Duration:   cfg.Duration.Std(),
		Pacing:     cfg.Pacing.Std(),
		EndTimeout: cfg.EndTimeout.Std(),
		Logger:     slog.Default(),
	})
}
