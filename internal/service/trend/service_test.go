package trend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

var testTrendsConfig = config.TrendsConfig{CacheTTL: 100 * time.Hour, TopN: 5}

func newTestService(records *recordRepoMock, cache *cacheRepoMock) *Service {
	svc := NewService(slog.Default(), records, cache, testTrendsConfig)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func okCache() *cacheRepoMock {
	return &cacheRepoMock{
		PutFunc: func(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error {
			return nil
		},
	}
}

func TestService_Refresh_AllRecords(t *testing.T) {
	t.Parallel()

	records := &recordRepoMock{
		ListSinceFunc: func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
			return []domain.VoiceRecord{
				rec("2024-01-01", 9, domain.EmotionJoy, []string{"db"}, nil),
			}, nil
		},
	}
	cache := okCache()
	svc := newTestService(records, cache)

	snap, err := svc.Refresh(context.Background(), 0)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !records.sinces[0].IsZero() {
		t.Errorf("since = %v, want zero time for an unbounded window", records.sinces[0])
	}
	if snap.RecordCount != 1 || !snap.GeneratedAt.Equal(fixedNow) {
		t.Errorf("snapshot = %+v", snap)
	}

	if len(cache.puts) != 1 {
		t.Fatalf("cache puts = %d, want 1", len(cache.puts))
	}
	put := cache.puts[0]
	if put.Key != domain.TrendsCacheKey {
		t.Errorf("key = %q, want %q", put.Key, domain.TrendsCacheKey)
	}
	if put.TTL != testTrendsConfig.CacheTTL || !put.Now.Equal(fixedNow) {
		t.Errorf("put now/ttl = %v/%v", put.Now, put.TTL)
	}
	if put.Snap.RecordCount != 1 {
		t.Errorf("cached RecordCount = %d, want 1", put.Snap.RecordCount)
	}
}

func TestService_Refresh_Window(t *testing.T) {
	t.Parallel()

	records := &recordRepoMock{
		ListSinceFunc: func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
			return nil, nil
		},
	}
	svc := newTestService(records, okCache())

	snap, err := svc.Refresh(context.Background(), 7)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if want := fixedNow.AddDate(0, 0, -7); !records.sinces[0].Equal(want) {
		t.Errorf("since = %v, want %v", records.sinces[0], want)
	}
	if snap.WindowDays != 7 {
		t.Errorf("WindowDays = %d, want 7", snap.WindowDays)
	}
}

func TestService_Refresh_InvalidWindow(t *testing.T) {
	t.Parallel()

	svc := newTestService(&recordRepoMock{}, &cacheRepoMock{})

	for _, days := range []int{-1, MaxWindowDays + 1} {
		if _, err := svc.Refresh(context.Background(), days); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("days=%d: err = %v, want ErrValidation", days, err)
		}
	}
}

func TestService_Refresh_Errors(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		records := &recordRepoMock{
			ListSinceFunc: func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
				return nil, dbErr
			},
		}
		cache := okCache()
		_, err := newTestService(records, cache).Refresh(context.Background(), 0)
		if !errors.Is(err, dbErr) {
			t.Errorf("err = %v, want %v", err, dbErr)
		}
		if len(cache.puts) != 0 {
			t.Error("cache must not be written after a failed read")
		}
	})

	t.Run("cache", func(t *testing.T) {
		t.Parallel()
		records := &recordRepoMock{
			ListSinceFunc: func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
				return nil, nil
			},
		}
		cache := &cacheRepoMock{
			PutFunc: func(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error {
				return dbErr
			},
		}
		_, err := newTestService(records, cache).Refresh(context.Background(), 0)
		if !errors.Is(err, dbErr) {
			t.Errorf("err = %v, want %v", err, dbErr)
		}
	})
}

func TestService_Latest(t *testing.T) {
	t.Parallel()

	t.Run("hit", func(t *testing.T) {
		t.Parallel()
		cache := &cacheRepoMock{
			GetFunc: func(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error) {
				if key != domain.TrendsCacheKey {
					t.Errorf("key = %q", key)
				}
				if !now.Equal(fixedNow) {
					t.Errorf("now = %v, want %v", now, fixedNow)
				}
				return &domain.TrendsSnapshot{RecordCount: 3}, nil
			},
		}
		snap, err := newTestService(&recordRepoMock{}, cache).Latest(context.Background())
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if snap.RecordCount != 3 {
			t.Errorf("RecordCount = %d, want 3", snap.RecordCount)
		}
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		cache := &cacheRepoMock{
			GetFunc: func(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error) {
				return nil, domain.ErrNotFound
			},
		}
		_, err := newTestService(&recordRepoMock{}, cache).Latest(context.Background())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestService_HandleJob(t *testing.T) {
	t.Parallel()

	records := &recordRepoMock{
		ListSinceFunc: func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
			return []domain.VoiceRecord{
				rec("2024-01-09", 9, domain.EmotionSadness, nil, nil),
			}, nil
		},
	}
	svc := newTestService(records, okCache())

	payload, _ := json.Marshal(domain.TrendAnalysisPayload{WindowDays: 30})
	job := &domain.Job{ID: uuid.New(), Task: domain.TaskTrendAnalysis, Payload: payload}

	out, err := svc.HandleJob(context.Background(), job)
	if err != nil {
		t.Fatalf("HandleJob: %v", err)
	}

	var snap domain.TrendsSnapshot
	if err := json.Unmarshal(out, &snap); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if snap.WindowDays != 30 || snap.RecordCount != 1 {
		t.Errorf("result = %+v", snap)
	}
	if got := snap.EmotionCountsByDate[domain.EmotionSadness]; len(got) != 1 || got[0] != 1 {
		t.Errorf("sadness = %v, want [1]", got)
	}
}

func TestService_HandleJob_BadPayload(t *testing.T) {
	t.Parallel()

	svc := newTestService(&recordRepoMock{}, &cacheRepoMock{})
	job := &domain.Job{ID: uuid.New(), Task: domain.TaskTrendAnalysis, Payload: json.RawMessage(`{"window_days":"x"}`)}

	if _, err := svc.HandleJob(context.Background(), job); err == nil {
		t.Fatal("expected decode error")
	}
}
