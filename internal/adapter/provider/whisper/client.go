// Package whisper transcribes audio files through an HTTP speech-to-text
// service wrapping a Whisper model.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/httpretry"
	"github.com/heartmarshall/scrumbot-backend/internal/config"
)

// Client calls the speech-to-text service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from cfg.
func New(cfg config.TranscriberConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "whisper"),
	}
}

type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type transcribeResponse struct {
	Segments []segment `json:"segments"`
	Language string    `json:"language"`
}

// Transcribe uploads the audio file at path and returns the recognized text:
// every segment trimmed and joined with single spaces. Silence yields "".
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	body, contentType, err := multipartFile(path)
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}

	c.log.DebugContext(ctx, "whisper request", slog.String("file", filepath.Base(path)), slog.Int("bytes", len(body)))

	resp, err := httpretry.Do(ctx, c.httpClient, c.log, newReq)
	if err != nil {
		c.log.ErrorContext(ctx, "whisper request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("whisper: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whisper: read body: %w", err)
	}

	var out transcribeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("whisper: decode json: %w", err)
	}

	parts := make([]string, 0, len(out.Segments))
	for _, s := range out.Segments {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	text := strings.Join(parts, " ")

	c.log.DebugContext(ctx, "whisper response",
		slog.String("language", out.Language),
		slog.Int("segments", len(out.Segments)),
		slog.Int("chars", len(text)),
	)

	return text, nil
}

// multipartFile reads path into a multipart body with a single "file" part.
func multipartFile(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
