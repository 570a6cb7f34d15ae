package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/job"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/trendcache"
	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
)

// CleanupResult is what a cleanup run removed.
type CleanupResult struct {
	Jobs         int64
	CacheEntries int64
}

type jobPurger interface {
	Purge(ctx context.Context) (int64, error)
}

type cachePurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunCleanup deletes expired job results and trend cache rows in one
// transaction. It is meant for an external scheduler. Job expiry is judged
// by the job service clock, cache expiry by the time the run started.
func RunCleanup(ctx context.Context) error {
	e, err := bootstrap(ctx, "cleanup")
	if err != nil {
		return err
	}
	defer e.close()

	jobs := jobsvc.NewService(e.log, job.New(e.pool), e.cfg.Queue)
	res, err := purgeExpired(ctx, postgres.NewTxManager(e.pool), jobs, trendcache.New(e.pool), time.Now().UTC())
	if err != nil {
		return err
	}

	e.log.Info("cleanup completed",
		slog.Int64("jobs", res.Jobs),
		slog.Int64("cache_entries", res.CacheEntries),
	)
	return nil
}

func purgeExpired(ctx context.Context, tx txRunner, jobs jobPurger, cache cachePurger, now time.Time) (CleanupResult, error) {
	var res CleanupResult
	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if res.Jobs, err = jobs.Purge(ctx); err != nil {
			return err
		}
		if res.CacheEntries, err = cache.PurgeExpired(ctx, now); err != nil {
			return fmt.Errorf("purge trend cache: %w", err)
		}
		return nil
	})
	if err != nil {
		return CleanupResult{}, err
	}
	return res, nil
}
