package trend

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type recordRepoMock struct {
	ListSinceFunc func(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error)

	mu     sync.Mutex
	sinces []time.Time
}

func (m *recordRepoMock) ListSince(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
	if m.ListSinceFunc == nil {
		panic("recordRepoMock.ListSinceFunc: method is nil but recordRepo.ListSince was just called")
	}
	m.mu.Lock()
	m.sinces = append(m.sinces, since)
	m.mu.Unlock()
	return m.ListSinceFunc(ctx, since)
}

type putCall struct {
	Key  string
	Snap domain.TrendsSnapshot
	Now  time.Time
	TTL  time.Duration
}

type cacheRepoMock struct {
	PutFunc func(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error
	GetFunc func(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error)

	mu   sync.Mutex
	puts []putCall
}

func (m *cacheRepoMock) Put(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error {
	if m.PutFunc == nil {
		panic("cacheRepoMock.PutFunc: method is nil but cacheRepo.Put was just called")
	}
	m.mu.Lock()
	m.puts = append(m.puts, putCall{Key: key, Snap: snap, Now: now, TTL: ttl})
	m.mu.Unlock()
	return m.PutFunc(ctx, key, snap, now, ttl)
}

func (m *cacheRepoMock) Get(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error) {
	if m.GetFunc == nil {
		panic("cacheRepoMock.GetFunc: method is nil but cacheRepo.Get was just called")
	}
	return m.GetFunc(ctx, key, now)
}
