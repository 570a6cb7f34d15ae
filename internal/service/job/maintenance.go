package job

import (
	"context"
	"fmt"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Stats is the number of jobs in each status.
type Stats struct {
	Pending   int64 `json:"pending"`
	Running   int64 `json:"running"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Purge deletes finished jobs whose result window has passed.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	n, err := s.jobs.PurgeExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge jobs: %w", err)
	}
	return n, nil
}

// Stats returns queue depth by status.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.jobs.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("job stats: %w", err)
	}
	return Stats{
		Pending:   counts[domain.JobStatusPending],
		Running:   counts[domain.JobStatusRunning],
		Succeeded: counts[domain.JobStatusSucceeded],
		Failed:    counts[domain.JobStatusFailed],
	}, nil
}
