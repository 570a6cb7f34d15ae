package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Submit enqueues a job for task with payload encoded as JSON.
// It returns as soon as the job is stored.
func (s *Service) Submit(ctx context.Context, task domain.Task, payload any) (*domain.Job, error) {
	if !task.IsValid() {
		return nil, domain.NewValidationError("task", fmt.Sprintf("unknown task %q", task))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", task, err)
	}

	j, err := s.jobs.Enqueue(ctx, domain.Job{
		ID:          uuid.New(),
		Task:        task,
		Payload:     raw,
		MaxAttempts: s.cfg.MaxAttempts,
		EnqueuedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", task, err)
	}

	s.log.InfoContext(ctx, "job enqueued", slog.String("job_id", j.ID.String()), slog.String("task", string(task)))
	return j, nil
}

// Status returns the current state of a job.
// Returns domain.ErrNotFound for unknown ids and for finished jobs whose
// result window has passed.
func (s *Service) Status(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("job_id", "required")
	}

	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if j.Expired(s.now()) {
		return nil, fmt.Errorf("job %s expired: %w", id, domain.ErrNotFound)
	}
	return j, nil
}
