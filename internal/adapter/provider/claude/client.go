// Package claude cleans and summarizes transcripts with the Anthropic
// Messages API.
package claude

import (
	"context"
	"fmt"
	"log/slog"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	"github.com/heartmarshall/scrumbot-backend/internal/provider"
)

// Client is an LLM backend over the Anthropic API.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// New creates a Client from cfg. cfg.BaseURL, when set, replaces the
// public API endpoint.
func New(cfg config.LLMConfig, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       logger.With("adapter", "claude"),
	}
}

// Clean returns a grammar-corrected version of one transcript chunk.
func (c *Client) Clean(ctx context.Context, chunk string) (string, error) {
	reply, err := c.complete(ctx, provider.CleanPrompt(chunk))
	if err != nil {
		return "", err
	}
	return provider.CleanReply(reply)
}

// Extract returns the structured summary of a cleaned transcript.
// A reply that does not match the schema wraps domain.ErrMalformedOutput.
func (c *Client) Extract(ctx context.Context, text string) (domain.Extraction, error) {
	reply, err := c.complete(ctx, provider.ExtractPrompt(text))
	if err != nil {
		return domain.Extraction{}, err
	}

	ext, err := provider.ParseExtraction(reply)
	if err != nil {
		c.log.WarnContext(ctx, "claude reply rejected", slog.String("error", err.Error()))
		return domain.Extraction{}, err
	}
	return ext, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude: messages api: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("claude: %w: empty response", domain.ErrMalformedOutput)
	}

	c.log.DebugContext(ctx, "claude response",
		slog.String("model", c.model),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return msg.Content[0].Text, nil
}
