// Package report renders recent voice records as a markdown sprint report.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

const (
	DefaultDays = 7
	MaxDays     = 365
)

const entryTimeLayout = "2006-01-02 15:04"

type recordRepo interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error)
}

// Service builds sprint reports.
type Service struct {
	records recordRepo
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a new report service.
func NewService(log *slog.Logger, records recordRepo) *Service {
	return &Service{
		records: records,
		now:     time.Now,
		log:     log.With("service", "report"),
	}
}

// Generate returns a markdown document with every record created in the
// last days days, oldest first.
func (s *Service) Generate(ctx context.Context, days int) (string, error) {
	if days < 1 || days > MaxDays {
		return "", domain.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", MaxDays))
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	records, err := s.records.ListSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("list records: %w", err)
	}

	s.log.DebugContext(ctx, "report generated", slog.Int("days", days), slog.Int("records", len(records)))
	return Render(days, records), nil
}

// Render formats records as markdown.
func Render(days int, records []domain.VoiceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sprint Report (last %d days)\n", days)

	for _, r := range records {
		b.WriteString("\n")
		fmt.Fprintf(&b, "## Update on %s\n", r.CreatedAt.UTC().Format(entryTimeLayout))
		fmt.Fprintf(&b, "- **Summary:** %s\n", r.Summary)
		fmt.Fprintf(&b, "- **Emotion:** %s\n", r.Emotion.OrDefault())
		fmt.Fprintf(&b, "- **Transcript:** %s\n", r.Transcript)
		fmt.Fprintf(&b, "- **Progress:** %s\n", joinOrNone(r.Progress))
		fmt.Fprintf(&b, "- **Next Steps:** %s\n", joinOrNone(r.NextSteps))
		fmt.Fprintf(&b, "- **Blockers:** %s\n", joinOrNone(r.Blockers))
		if r.TicketURL != nil && *r.TicketURL != "" {
			fmt.Fprintf(&b, "- **Jira Issue:** [%s](%s)\n", *r.TicketURL, *r.TicketURL)
		}
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
