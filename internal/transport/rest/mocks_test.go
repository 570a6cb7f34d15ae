package rest

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	"github.com/heartmarshall/scrumbot-backend/internal/service/intake"
	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
)

type uploadCall struct {
	FileName string
	Body     string
}

type intakeServiceMock struct {
	SubmitAudioFunc  func(ctx context.Context, in intake.SubmitInput) (*intake.Submitted, error)
	SubmitTrendsFunc func(ctx context.Context, windowDays int) (uuid.UUID, error)

	mu      sync.Mutex
	uploads []uploadCall
	windows []int
}

func (m *intakeServiceMock) SubmitAudio(ctx context.Context, in intake.SubmitInput) (*intake.Submitted, error) {
	if m.SubmitAudioFunc == nil {
		panic("intakeServiceMock.SubmitAudioFunc: method is nil but intakeService.SubmitAudio was just called")
	}
	body, _ := io.ReadAll(in.Body)
	m.mu.Lock()
	m.uploads = append(m.uploads, uploadCall{FileName: in.FileName, Body: string(body)})
	m.mu.Unlock()
	return m.SubmitAudioFunc(ctx, in)
}

func (m *intakeServiceMock) SubmitTrends(ctx context.Context, windowDays int) (uuid.UUID, error) {
	if m.SubmitTrendsFunc == nil {
		panic("intakeServiceMock.SubmitTrendsFunc: method is nil but intakeService.SubmitTrends was just called")
	}
	m.mu.Lock()
	m.windows = append(m.windows, windowDays)
	m.mu.Unlock()
	return m.SubmitTrendsFunc(ctx, windowDays)
}

type jobStatusServiceMock struct {
	StatusFunc func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
}

func (m *jobStatusServiceMock) Status(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if m.StatusFunc == nil {
		panic("jobStatusServiceMock.StatusFunc: method is nil but jobStatusService.Status was just called")
	}
	return m.StatusFunc(ctx, id)
}

type voicelogServiceMock struct {
	ListFunc func(ctx context.Context) ([]domain.VoiceRecord, error)
	GetFunc  func(ctx context.Context, id int64) (*domain.VoiceRecord, error)
}

func (m *voicelogServiceMock) List(ctx context.Context) ([]domain.VoiceRecord, error) {
	if m.ListFunc == nil {
		panic("voicelogServiceMock.ListFunc: method is nil but voicelogService.List was just called")
	}
	return m.ListFunc(ctx)
}

func (m *voicelogServiceMock) Get(ctx context.Context, id int64) (*domain.VoiceRecord, error) {
	if m.GetFunc == nil {
		panic("voicelogServiceMock.GetFunc: method is nil but voicelogService.Get was just called")
	}
	return m.GetFunc(ctx, id)
}

type trendServiceMock struct {
	LatestFunc func(ctx context.Context) (*domain.TrendsSnapshot, error)
}

func (m *trendServiceMock) Latest(ctx context.Context) (*domain.TrendsSnapshot, error) {
	if m.LatestFunc == nil {
		panic("trendServiceMock.LatestFunc: method is nil but trendService.Latest was just called")
	}
	return m.LatestFunc(ctx)
}

type reportServiceMock struct {
	GenerateFunc func(ctx context.Context, days int) (string, error)
}

func (m *reportServiceMock) Generate(ctx context.Context, days int) (string, error) {
	if m.GenerateFunc == nil {
		panic("reportServiceMock.GenerateFunc: method is nil but reportService.Generate was just called")
	}
	return m.GenerateFunc(ctx, days)
}

type queueStatsServiceMock struct {
	StatsFunc func(ctx context.Context) (jobsvc.Stats, error)
}

func (m *queueStatsServiceMock) Stats(ctx context.Context) (jobsvc.Stats, error) {
	if m.StatsFunc == nil {
		panic("queueStatsServiceMock.StatsFunc: method is nil but queueStatsService.Stats was just called")
	}
	return m.StatsFunc(ctx)
}
