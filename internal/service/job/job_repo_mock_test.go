package job

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

var _ jobRepo = &jobRepoMock{}

type jobRepoMock struct {
	EnqueueFunc       func(ctx context.Context, j domain.Job) (*domain.Job, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	ClaimFunc         func(ctx context.Context, tasks []domain.Task, now time.Time, lease time.Duration) (*domain.Job, error)
	CompleteFunc      func(ctx context.Context, id uuid.UUID, attempt int, result json.RawMessage, now time.Time, ttl time.Duration) error
	FailFunc          func(ctx context.Context, id uuid.UUID, attempt int, stage domain.Stage, msg string, now time.Time, ttl time.Duration) error
	ReapAbandonedFunc func(ctx context.Context, now time.Time, ttl time.Duration) (int64, error)
	PurgeExpiredFunc  func(ctx context.Context, now time.Time) (int64, error)
	StatsFunc         func(ctx context.Context) (map[domain.JobStatus]int64, error)

	mu    sync.Mutex
	calls struct {
		Enqueue []domain.Job
		Fail    []failCall
	}
}

type failCall struct {
	ID      uuid.UUID
	Attempt int
	Stage   domain.Stage
	Msg     string
}

func (m *jobRepoMock) Enqueue(ctx context.Context, j domain.Job) (*domain.Job, error) {
	if m.EnqueueFunc == nil {
		panic("jobRepoMock.EnqueueFunc: method is nil but jobRepo.Enqueue was just called")
	}
	m.mu.Lock()
	m.calls.Enqueue = append(m.calls.Enqueue, j)
	m.mu.Unlock()
	return m.EnqueueFunc(ctx, j)
}

func (m *jobRepoMock) EnqueueCalls() []domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Enqueue
}

func (m *jobRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if m.GetByIDFunc == nil {
		panic("jobRepoMock.GetByIDFunc: method is nil but jobRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *jobRepoMock) Claim(ctx context.Context, tasks []domain.Task, now time.Time, lease time.Duration) (*domain.Job, error) {
	if m.ClaimFunc == nil {
		panic("jobRepoMock.ClaimFunc: method is nil but jobRepo.Claim was just called")
	}
	return m.ClaimFunc(ctx, tasks, now, lease)
}

func (m *jobRepoMock) Complete(ctx context.Context, id uuid.UUID, attempt int, result json.RawMessage, now time.Time, ttl time.Duration) error {
	if m.CompleteFunc == nil {
		panic("jobRepoMock.CompleteFunc: method is nil but jobRepo.Complete was just called")
	}
	return m.CompleteFunc(ctx, id, attempt, result, now, ttl)
}

func (m *jobRepoMock) Fail(ctx context.Context, id uuid.UUID, attempt int, stage domain.Stage, msg string, now time.Time, ttl time.Duration) error {
	if m.FailFunc == nil {
		panic("jobRepoMock.FailFunc: method is nil but jobRepo.Fail was just called")
	}
	m.mu.Lock()
	m.calls.Fail = append(m.calls.Fail, failCall{ID: id, Attempt: attempt, Stage: stage, Msg: msg})
	m.mu.Unlock()
	return m.FailFunc(ctx, id, attempt, stage, msg, now, ttl)
}

func (m *jobRepoMock) FailCalls() []failCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Fail
}

func (m *jobRepoMock) ReapAbandoned(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	if m.ReapAbandonedFunc == nil {
		panic("jobRepoMock.ReapAbandonedFunc: method is nil but jobRepo.ReapAbandoned was just called")
	}
	return m.ReapAbandonedFunc(ctx, now, ttl)
}

func (m *jobRepoMock) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.PurgeExpiredFunc == nil {
		panic("jobRepoMock.PurgeExpiredFunc: method is nil but jobRepo.PurgeExpired was just called")
	}
	return m.PurgeExpiredFunc(ctx, now)
}

func (m *jobRepoMock) Stats(ctx context.Context) (map[domain.JobStatus]int64, error) {
	if m.StatsFunc == nil {
		panic("jobRepoMock.StatsFunc: method is nil but jobRepo.Stats was just called")
	}
	return m.StatsFunc(ctx)
}
