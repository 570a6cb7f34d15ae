//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/filestore"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/job"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/trendcache"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/jira"
	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	"github.com/heartmarshall/scrumbot-backend/internal/service/intake"
	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
	"github.com/heartmarshall/scrumbot-backend/internal/service/pipeline"
	"github.com/heartmarshall/scrumbot-backend/internal/service/report"
	"github.com/heartmarshall/scrumbot-backend/internal/service/trend"
	"github.com/heartmarshall/scrumbot-backend/internal/service/voicelog"
	"github.com/heartmarshall/scrumbot-backend/internal/transport/middleware"
	"github.com/heartmarshall/scrumbot-backend/internal/transport/rest"
	"github.com/heartmarshall/scrumbot-backend/internal/worker"
)

const (
	adminToken = "e2e-admin-token"

	// brokenMarker in an upload name makes the fake transcriber fail.
	brokenMarker = "broken"

	spokenUpdate = "Yesterday I finished the login page. Today I will write the tests. " +
		"I am blocked by the staging database."
)

// ---------------------------------------------------------------------------
// Fake model adapters. They are deterministic, so any worker in the test
// binary may pick up any job.
// ---------------------------------------------------------------------------

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	if strings.Contains(path, brokenMarker) {
		return "", errors.New("transcriber unavailable")
	}
	return spokenUpdate, nil
}

type fakeLLM struct{}

func (fakeLLM) Clean(_ context.Context, chunk string) (string, error) {
	return strings.TrimSpace(chunk), nil
}

func (fakeLLM) Extract(_ context.Context, _ string) (domain.Extraction, error) {
	return domain.Extraction{
		Summary:   "Finished the login page, writing tests next.",
		Progress:  []string{"login page"},
		NextSteps: []string{"write tests"},
		Blockers:  []string{"staging database"},
		Sentiment: domain.SentimentNeutral,
	}, nil
}

type fakeClassifier struct{}

func (fakeClassifier) Scores(_ context.Context, _ string) ([]domain.EmotionScore, error) {
	return []domain.EmotionScore{
		{Label: domain.EmotionJoy, Score: 0.7},
		{Label: domain.EmotionFear, Score: 0.2},
	}, nil
}

// ---------------------------------------------------------------------------
// testServer wraps the HTTP API plus an in-process worker.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		ResultTTL:         10 * time.Minute,
		JobTimeout:        10 * time.Second,
		VisibilityTimeout: 20 * time.Second,
		MaxAttempts:       1,
		PollInterval:      50 * time.Millisecond,
		Workers:           2,
		ReapInterval:      time.Second,
	}
}

// setupTestServer bootstraps the full stack against the shared PostgreSQL
// container and starts a worker that lives until the test ends.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	queueCfg := testQueueConfig()

	files, err := filestore.New(config.StorageConfig{UploadDir: t.TempDir(), MaxUploadBytes: 1 << 20}, logger)
	require.NoError(t, err)

	records := record.New(pool)
	jobs := jobsvc.NewService(logger, job.New(pool), queueCfg)
	trends := trend.NewService(logger, records, trendcache.New(pool), config.TrendsConfig{CacheTTL: time.Hour, TopN: 5})
	intakeSvc := intake.NewService(logger, files, jobs)

	pipe := pipeline.NewService(logger, pipeline.Deps{
		Transcriber: fakeTranscriber{},
		LLM:         fakeLLM{},
		Classifier:  fakeClassifier{},
		Tickets:     jira.NewStub("https://jira.example.test", logger),
		Records:     records,
	}, config.PipelineConfig{ChunkSize: 1000, ClassifierMaxChars: 512})

	runner := worker.NewRunner(logger, jobs, map[domain.Task]worker.Handler{
		domain.TaskProcessAudio:  pipe,
		domain.TaskTrendAnalysis: trends,
	}, queueCfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()

	limiter := middleware.NewRateLimiter(time.Minute)
	handler := rest.NewRouter(logger, rest.Handlers{
		Voice:    rest.NewVoiceHandler(intakeSvc, jobs, voicelog.NewService(logger, records), logger),
		Insights: rest.NewInsightsHandler(intakeSvc, trends, report.NewService(logger, records), logger),
		Admin:    rest.NewAdminHandler(jobs, logger),
		Health: rest.NewHealthHandler("e2e",
			rest.Check{Name: "database", Probe: pool.Ping},
			rest.Check{Name: "uploads", Probe: files.Ping},
		),
	}, config.ServerConfig{UploadRatePerMinute: 1000, AdminToken: adminToken},
		config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST", AllowedHeaders: "Content-Type"},
		limiter)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
		limiter.Stop()
	})

	return &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool}
}

// ---------------------------------------------------------------------------
// Request helpers.
// ---------------------------------------------------------------------------

func (ts *testServer) upload(t *testing.T, name string, audio []byte) (int, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := ts.Client.Post(ts.URL+"/api/upload_audio", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, decodeObject(t, resp.Body)
}

func (ts *testServer) getJSON(t *testing.T, path string, out any) int {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

// waitForJob polls the status endpoint until the job leaves "pending".
func (ts *testServer) waitForJob(t *testing.T, jobID string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		var status map[string]any
		code := ts.getJSON(t, "/api/task_status/"+jobID, &status)
		require.Equal(t, http.StatusOK, code)
		if status["status"] != "pending" {
			return status
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job %s still pending after 15s", jobID)
	return nil
}

func decodeObject(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}
