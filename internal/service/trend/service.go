// Package trend aggregates voice records into day-bucketed emotion series
// and top blocker/next-step lists, and caches the latest snapshot.
package trend

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// MaxWindowDays bounds the optional aggregation window.
const MaxWindowDays = 365

type recordRepo interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error)
}

type cacheRepo interface {
	Put(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error
	Get(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error)
}

// Service provides trend aggregation.
type Service struct {
	records recordRepo
	cache   cacheRepo
	cfg     config.TrendsConfig
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a new trend service.
func NewService(log *slog.Logger, records recordRepo, cache cacheRepo, cfg config.TrendsConfig) *Service {
	return &Service{
		records: records,
		cache:   cache,
		cfg:     cfg,
		now:     time.Now,
		log:     log.With("service", "trend"),
	}
}
