// Package voicelog serves stored voice records.
package voicelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type recordRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.VoiceRecord, error)
	List(ctx context.Context) ([]domain.VoiceRecord, error)
}

// Service reads voice records.
type Service struct {
	records recordRepo
	log     *slog.Logger
}

// NewService creates a new voicelog service.
func NewService(log *slog.Logger, records recordRepo) *Service {
	return &Service{
		records: records,
		log:     log.With("service", "voicelog"),
	}
}

// List returns every record, newest first.
// Returns domain.ErrNotFound when nothing has been recorded yet.
func (s *Service) List(ctx context.Context) ([]domain.VoiceRecord, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records: %w", domain.ErrNotFound)
	}
	return records, nil
}

// Get returns a single record.
func (s *Service) Get(ctx context.Context, id int64) (*domain.VoiceRecord, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be positive")
	}
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}
