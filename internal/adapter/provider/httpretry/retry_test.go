package httpretry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDo_NoRetryOnSuccessOr4xx(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
		}))

		resp, err := Do(context.Background(), srv.Client(), newTestLogger(), func() (*http.Request, error) {
			return http.NewRequest(http.MethodGet, srv.URL, nil)
		})
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", status, err)
		}
		resp.Body.Close()
		if resp.StatusCode != status || calls.Load() != 1 {
			t.Errorf("status %d: got %d after %d calls", status, resp.StatusCode, calls.Load())
		}
		srv.Close()
	}
}

func TestDo_RetriesWithFreshBody(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "payload" {
			t.Errorf("attempt %d body = %q", calls.Load()+1, body)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), srv.Client(), newTestLogger(), func() (*http.Request, error) {
		return http.NewRequest(http.MethodPost, srv.URL, strings.NewReader("payload"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || calls.Load() != 2 {
		t.Errorf("got %d after %d calls", resp.StatusCode, calls.Load())
	}
}

func TestDo_CancelledContextSkipsRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := Do(ctx, srv.Client(), newTestLogger(), func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	})
	if resp != nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected the failed response or an error, got %d", resp.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestDo_RequestBuildError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad url")
	_, err := Do(context.Background(), http.DefaultClient, newTestLogger(), func() (*http.Request, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
}
