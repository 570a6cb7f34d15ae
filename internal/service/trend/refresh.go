package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Refresh aggregates the records of the last windowDays days, or every
// record when windowDays is 0, and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context, windowDays int) (*domain.TrendsSnapshot, error) {
	if windowDays < 0 || windowDays > MaxWindowDays {
		return nil, domain.NewValidationError("days", fmt.Sprintf("must be between 0 and %d", MaxWindowDays))
	}

	now := s.now().UTC()
	var since time.Time
	if windowDays > 0 {
		since = now.AddDate(0, 0, -windowDays)
	}

	records, err := s.records.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	snap := Aggregate(records, s.cfg.TopN)
	snap.WindowDays = windowDays
	snap.GeneratedAt = now

	if err := s.cache.Put(ctx, domain.TrendsCacheKey, snap, now, s.cfg.CacheTTL); err != nil {
		return nil, fmt.Errorf("cache trends: %w", err)
	}

	s.log.InfoContext(ctx, "trends refreshed",
		slog.Int("records", snap.RecordCount),
		slog.Int("days", len(snap.Dates)),
		slog.Int("window_days", windowDays),
	)
	return &snap, nil
}

// Latest returns the cached snapshot.
// Returns domain.ErrNotFound if no run has completed or the entry expired.
func (s *Service) Latest(ctx context.Context) (*domain.TrendsSnapshot, error) {
	snap, err := s.cache.Get(ctx, domain.TrendsCacheKey, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("get latest trends: %w", err)
	}
	return snap, nil
}

// HandleJob runs a trend_analysis job. The result is the new snapshot.
func (s *Service) HandleJob(ctx context.Context, j *domain.Job) (json.RawMessage, error) {
	var in domain.TrendAnalysisPayload
	if len(j.Payload) > 0 {
		if err := json.Unmarshal(j.Payload, &in); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}

	snap, err := s.Refresh(ctx, in.WindowDays)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return out, nil
}
