// Package jira files blocker tickets in Jira through its REST API.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Client creates issues in one Jira project.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	projectKey string
	issueType  string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from cfg.
func New(cfg config.JiraConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		projectKey: cfg.ProjectKey,
		issueType:  cfg.IssueType,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "jira"),
	}
}

type issueFields struct {
	Project     keyRef  `json:"project"`
	Summary     string  `json:"summary"`
	Description string  `json:"description"`
	IssueType   nameRef `json:"issuetype"`
}

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

type createIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CreateTicket files an issue and returns its key and browse URL.
// Issue creation is not idempotent, so failures are not retried.
func (c *Client) CreateTicket(ctx context.Context, title, description string) (domain.Ticket, error) {
	body, err := json.Marshal(map[string]issueFields{
		"fields": {
			Project:     keyRef{Key: c.projectKey},
			Summary:     title,
			Description: description,
			IssueType:   nameRef{Name: c.issueType},
		},
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("jira: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/2/issue", bytes.NewReader(body))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("jira: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "jira request failed", slog.String("error", err.Error()))
		return domain.Ticket{}, fmt.Errorf("jira: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("jira: read body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return domain.Ticket{}, fmt.Errorf("jira: unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out createIssueResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.Ticket{}, fmt.Errorf("jira: decode json: %w", err)
	}
	if out.Key == "" {
		return domain.Ticket{}, fmt.Errorf("jira: response has no issue key")
	}

	ticket := domain.Ticket{Key: out.Key, URL: c.baseURL + "/browse/" + out.Key}
	c.log.InfoContext(ctx, "jira issue created", slog.String("key", ticket.Key))
	return ticket, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
