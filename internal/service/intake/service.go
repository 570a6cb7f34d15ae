// Package intake accepts uploads and trend requests and turns them into
// queued jobs.
package intake

import (
	"context"
	"io"
	"log/slog"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/filestore"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type fileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (filestore.Saved, error)
	Remove(path string) error
}

type jobSubmitter interface {
	Submit(ctx context.Context, task domain.Task, payload any) (*domain.Job, error)
}

// Service provides upload and trend intake.
type Service struct {
	files fileStore
	jobs  jobSubmitter
	log   *slog.Logger
}

// NewService creates a new intake service.
func NewService(log *slog.Logger, files fileStore, jobs jobSubmitter) *Service {
	return &Service{
		files: files,
		jobs:  jobs,
		log:   log.With("service", "intake"),
	}
}
