// Package job is the queue facade: submission and polling for the HTTP
// side, leasing and reporting for workers.
package job

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type jobRepo interface {
	Enqueue(ctx context.Context, j domain.Job) (*domain.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	Claim(ctx context.Context, tasks []domain.Task, now time.Time, lease time.Duration) (*domain.Job, error)
	Complete(ctx context.Context, id uuid.UUID, attempt int, result json.RawMessage, now time.Time, ttl time.Duration) error
	Fail(ctx context.Context, id uuid.UUID, attempt int, stage domain.Stage, msg string, now time.Time, ttl time.Duration) error
	ReapAbandoned(ctx context.Context, now time.Time, ttl time.Duration) (int64, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context) (map[domain.JobStatus]int64, error)
}

// Service provides job queue operations.
type Service struct {
	jobs jobRepo
	cfg  config.QueueConfig
	now  func() time.Time
	log  *slog.Logger
}

// NewService creates a new job queue service.
func NewService(log *slog.Logger, jobs jobRepo, cfg config.QueueConfig) *Service {
	return &Service{
		jobs: jobs,
		cfg:  cfg,
		now:  time.Now,
		log:  log.With("service", "job"),
	}
}
