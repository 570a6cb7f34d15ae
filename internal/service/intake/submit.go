package intake

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// MaxTrendWindowDays bounds the optional trend window.
const MaxTrendWindowDays = 365

// SubmitInput is an uploaded recording.
type SubmitInput struct {
	FileName string
	Body     io.Reader
}

func (in SubmitInput) Validate() error {
	var errs []domain.FieldError
	if in.FileName == "" {
		errs = append(errs, domain.FieldError{Field: "file", Message: "file name is required"})
	}
	if in.Body == nil {
		errs = append(errs, domain.FieldError{Field: "file", Message: "body is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Submitted identifies a queued upload.
type Submitted struct {
	JobID      uuid.UUID
	StoredName string
}

// SubmitAudio stores the upload and enqueues its processing.
// The stored file is removed again if the job cannot be enqueued.
func (s *Service) SubmitAudio(ctx context.Context, in SubmitInput) (*Submitted, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.files.Save(ctx, in.FileName, in.Body)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	j, err := s.jobs.Submit(ctx, domain.TaskProcessAudio, domain.ProcessAudioPayload{
		AudioPath:   saved.Path,
		DisplayName: saved.StoredName,
	})
	if err != nil {
		if rmErr := s.files.Remove(saved.Path); rmErr != nil {
			s.log.WarnContext(ctx, "orphaned upload", slog.String("path", saved.Path), slog.String("error", rmErr.Error()))
		}
		return nil, fmt.Errorf("submit upload: %w", err)
	}

	s.log.InfoContext(ctx, "upload accepted",
		slog.String("job_id", j.ID.String()),
		slog.String("file", saved.StoredName),
		slog.Int64("bytes", saved.Bytes),
	)
	return &Submitted{JobID: j.ID, StoredName: saved.StoredName}, nil
}

// SubmitTrends enqueues a trend analysis over the last windowDays days,
// or over every record when windowDays is 0.
func (s *Service) SubmitTrends(ctx context.Context, windowDays int) (uuid.UUID, error) {
	if windowDays < 0 || windowDays > MaxTrendWindowDays {
		return uuid.Nil, domain.NewValidationError("days", fmt.Sprintf("must be between 0 and %d", MaxTrendWindowDays))
	}

	j, err := s.jobs.Submit(ctx, domain.TaskTrendAnalysis, domain.TrendAnalysisPayload{WindowDays: windowDays})
	if err != nil {
		return uuid.Nil, fmt.Errorf("submit trends: %w", err)
	}
	return j.ID, nil
}
