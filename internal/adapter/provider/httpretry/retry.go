// Package httpretry runs an HTTP request with a single retry on a 5xx
// status or a network error.
package httpretry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Delay is the pause before the retry.
const Delay = 500 * time.Millisecond

// Do builds a request with newReq and sends it. Requests with bodies must be
// rebuilt for the retry, so newReq is called once per attempt.
func Do(ctx context.Context, client *http.Client, log *slog.Logger, newReq func() (*http.Request, error)) (*http.Response, error) {
	req, err := newReq()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	log.WarnContext(ctx, "http retry", slog.String("url", req.URL.Redacted()), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(Delay):
	}

	req, err = newReq()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return client.Do(req)
}
