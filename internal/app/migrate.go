package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/migrations"
)

// Migration commands understood by RunMigrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// RunMigrate applies, rolls back or lists the embedded schema migrations.
// Down reverts only the most recent version.
func RunMigrate(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := NewLogger(cfg.Log, "migrate")

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	switch command {
	case MigrateUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		for _, r := range results {
			log.Info("migration applied",
				slog.Int64("version", r.Source.Version),
				slog.Duration("duration", r.Duration),
			)
		}
		if len(results) == 0 {
			log.Info("schema is up to date")
		}
	case MigrateDown:
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		log.Info("migration rolled back", slog.Int64("version", r.Source.Version))
	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range statuses {
			log.Info("migration",
				slog.Int64("version", s.Source.Version),
				slog.String("state", string(s.State)),
			)
		}
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down or status)", command)
	}
	return nil
}
