// Package app wires configuration, storage, adapters and services into the
// runnable processes: the HTTP server, the worker, cleanup and migrations.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scrumbot-backend/internal/config"
)

// env is what every process starts from.
type env struct {
	cfg  *config.Config
	log  *slog.Logger
	pool *pgxpool.Pool
}

func bootstrap(ctx context.Context, component string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log, component)
	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &env{cfg: cfg, log: logger, pool: pool}, nil
}

func (e *env) close() {
	e.pool.Close()
}
