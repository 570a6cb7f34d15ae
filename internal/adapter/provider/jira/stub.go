package jira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

const stubBaseURL = "https://jira.invalid"

// Stub pretends to file issues. It is used when JIRA_MOCK is set and hands
// out sequential MOCK-<n> keys.
type Stub struct {
	baseURL string
	seq     atomic.Int64
	log     *slog.Logger
}

// NewStub creates a Stub whose URLs point at baseURL, or at a placeholder
// host when baseURL is empty.
func NewStub(baseURL string, logger *slog.Logger) *Stub {
	if baseURL == "" {
		baseURL = stubBaseURL
	}
	return &Stub{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With("adapter", "jira-stub"),
	}
}

// CreateTicket returns the next mock ticket.
func (s *Stub) CreateTicket(ctx context.Context, title, _ string) (domain.Ticket, error) {
	key := fmt.Sprintf("MOCK-%d", s.seq.Add(1))
	s.log.InfoContext(ctx, "mock jira issue created", slog.String("key", key), slog.String("title", title))
	return domain.Ticket{Key: key, URL: s.baseURL + "/browse/" + key}, nil
}
