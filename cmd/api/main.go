package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dhartley/liftcoach/internal/aiprovider"
	"github.com/dhartley/liftcoach/internal/auth"
	"github.com/dhartley/liftcoach/internal/config"
	"github.com/dhartley/liftcoach/internal/flightrecorder"
	"github.com/dhartley/liftcoach/internal/logging"
	"github.com/dhartley/liftcoach/internal/sqlite"
)

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cancel context.CancelFunc
	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	cfg, err := config.Load(lookupEnv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("open db (url: %s): %w", cfg.DatabaseURL, err)
	}
	// The read-write pool stays pinned at SetMaxOpenConns(1) inside
	// sqlite.connect to keep set-logging transactions single-writer;
	// only the read-only pool is configurable.
	db.ReadOnly.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.ReadOnly.SetMaxIdleConns(cfg.DBMaxIdleConns)
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	provider, err := aiprovider.New(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL)
	if err != nil {
		return fmt.Errorf("new ai provider: %w", err)
	}

	recorder, err := flightrecorder.New(flightrecorder.Config{
		Logger:          logger,
		TracesDirectory: "traces",
	})
	if err != nil {
		return fmt.Errorf("new flight recorder: %w", err)
	}
	if err = recorder.Start(ctx); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}

	app := application{
		logger:             logger,
		db:                 db,
		catalog:            sqlite.NewCatalogRepository(db),
		aiProvider:         provider,
		authVerifier:       auth.NewVerifier(cfg.JWTSecret),
		validator:          validator.New(),
		flightRecorder:     recorder,
		corsAllowedOrigins: cfg.CORSAllowedOrigins,
		aiTimeout:          time.Duration(cfg.AITimeoutSeconds) * time.Second,
	}

	if err = app.serve(ctx, cfg.Addr, app.routes()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func main() {
	ctx := context.Background()
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	logger := slog.New(handler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", slog.Any("error", err))
		os.Exit(1)
	}
}
