package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Claim leases the oldest claimable job of the given tasks for the
// configured visibility timeout. Returns nil, nil when the queue is empty.
func (s *Service) Claim(ctx context.Context, tasks []domain.Task) (*domain.Job, error) {
	j, err := s.jobs.Claim(ctx, tasks, s.now().UTC(), s.cfg.VisibilityTimeout)
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if j != nil && j.Attempts > 1 {
		s.log.WarnContext(ctx, "job redelivered",
			slog.String("job_id", j.ID.String()),
			slog.Int("attempt", j.Attempts),
			slog.Int("max_attempts", j.MaxAttempts),
		)
	}
	return j, nil
}

// Complete records a successful run of the claimed job j.
func (s *Service) Complete(ctx context.Context, j *domain.Job, result json.RawMessage) error {
	if err := s.jobs.Complete(ctx, j.ID, j.Attempts, result, s.now().UTC(), s.cfg.ResultTTL); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// Fail records a failed run of the claimed job j. The stage carried by
// cause, if any, is stored alongside the message.
func (s *Service) Fail(ctx context.Context, j *domain.Job, cause error) error {
	stage, msg := FailureOf(cause)
	if err := s.jobs.Fail(ctx, j.ID, j.Attempts, stage, msg, s.now().UTC(), s.cfg.ResultTTL); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// Reap fails running jobs that lost their lease with no attempts left.
func (s *Service) Reap(ctx context.Context) (int64, error) {
	n, err := s.jobs.ReapAbandoned(ctx, s.now().UTC(), s.cfg.ResultTTL)
	if err != nil {
		return 0, fmt.Errorf("reap jobs: %w", err)
	}
	if n > 0 {
		s.log.WarnContext(ctx, "abandoned jobs failed", slog.Int64("count", n))
	}
	return n, nil
}

// FailureOf splits err into the stage that produced it and the message
// shown to pollers.
func FailureOf(err error) (domain.Stage, string) {
	var se *domain.StageError
	if errors.As(err, &se) {
		return se.Stage, se.Err.Error()
	}
	return "", err.Error()
}
