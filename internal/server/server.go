// Package server wires a store, the HTTP API and a listener together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
	"github.com/meikuraledutech/graphrel/api"
	"github.com/meikuraledutech/graphrel/internal/config"
	"github.com/meikuraledutech/graphrel/memory"
	"github.com/meikuraledutech/graphrel/postgres"
)

// OpenStore returns the postgres store when cfg.DatabaseURL is set and the
// in-memory store otherwise. The schema is created before returning.
// The returned close func releases the pool.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (graphrel.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory store")
		return memory.New(logger), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	store := postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("schema: %w", err)
	}
	logger.Info("using postgres store")
	return store, pool.Close, nil
}

// Run serves the API on cfg.Listen until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}
	return Serve(ctx, ln, cfg, logger)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, cfg *config.Config, logger *zap.Logger) error {
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		ln.Close()
		return err
	}
	defer closeStore()

	app := api.New(store, logger, api.NewMetrics())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	logger.Info("graph store listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
