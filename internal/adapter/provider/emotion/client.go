// Package emotion classifies the emotion of a text through an HTTP service
// wrapping a text-classification model.
package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/httpretry"
	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Client calls the emotion classifier service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from cfg.
func New(cfg config.EmotionConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "emotion"),
	}
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Emotions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"emotions"`
	Dominant string `json:"dominant_emotion"`
}

// Scores returns the score of every label, in the order the classifier
// reports them. Labels are lowercased but not checked against the label
// space; callers decide what an unknown label means.
func (c *Client) Scores(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	body, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("emotion: encode request: %w", err)
	}

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := httpretry.Do(ctx, c.httpClient, c.log, newReq)
	if err != nil {
		c.log.ErrorContext(ctx, "emotion request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("emotion: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("emotion: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("emotion: read body: %w", err)
	}

	var out detectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("emotion: decode json: %w", err)
	}

	scores := make([]domain.EmotionScore, len(out.Emotions))
	for i, e := range out.Emotions {
		scores[i] = domain.EmotionScore{
			Label: domain.Emotion(strings.ToLower(strings.TrimSpace(e.Label))),
			Score: e.Score,
		}
	}

	c.log.DebugContext(ctx, "emotion response",
		slog.Int("labels", len(scores)),
		slog.String("dominant", out.Dominant),
	)

	return scores, nil
}
