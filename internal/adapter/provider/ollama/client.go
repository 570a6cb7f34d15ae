// Package ollama cleans and summarizes transcripts with a local Ollama
// server through its /api/generate endpoint.
package ollama

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
	"github.com/heartmarshall/scrumbot-backend/internal/provider"
)

const defaultBaseURL = "http://localhost:11434"

// Client is an LLM backend over a local Ollama server.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from cfg. An empty cfg.BaseURL means the local default.
func New(cfg config.LLMConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "ollama"),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Clean returns a grammar-corrected version of one transcript chunk.
func (c *Client) Clean(ctx context.Context, chunk string) (string, error) {
	reply, err := c.generate(ctx, provider.CleanPrompt(chunk))
	if err != nil {
		return "", err
	}
	return provider.CleanReply(reply)
}

// Extract returns the structured summary of a cleaned transcript.
// A reply that does not match the schema wraps domain.ErrMalformedOutput.
func (c *Client) Extract(ctx context.Context, text string) (domain.Extraction, error) {
	reply, err := c.generate(ctx, provider.ExtractPrompt(text))
	if err != nil {
		return domain.Extraction{}, err
	}

	ext, err := provider.ParseExtraction(reply)
	if err != nil {
		c.log.WarnContext(ctx, "ollama reply rejected", slog.String("error", err.Error()))
		return domain.Extraction{}, err
	}
	return ext, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("ollama: encode request: %w", err)
	}

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := httpretry.Do(ctx, c.httpClient, c.log, newReq)
	if err != nil {
		c.log.ErrorContext(ctx, "ollama request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read body: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("ollama: decode json: %w", err)
	}

	c.log.DebugContext(ctx, "ollama response",
		slog.String("model", c.model),
		slog.Int("chars", len(out.Response)),
	)

	return out.Response, nil
}
