package pipeline

import (
	"context"
	"sync"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type transcriberMock struct {
	TranscribeFunc func(ctx context.Context, audioPath string) (string, error)
}

func (m *transcriberMock) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return m.TranscribeFunc(ctx, audioPath)
}

type languageModelMock struct {
	CleanFunc   func(ctx context.Context, chunk string) (string, error)
	ExtractFunc func(ctx context.Context, text string) (domain.Extraction, error)

	mu           sync.Mutex
	cleanCalls   []string
	extractCalls []string
}

func (m *languageModelMock) Clean(ctx context.Context, chunk string) (string, error) {
	m.mu.Lock()
	m.cleanCalls = append(m.cleanCalls, chunk)
	m.mu.Unlock()
	return m.CleanFunc(ctx, chunk)
}

func (m *languageModelMock) Extract(ctx context.Context, text string) (domain.Extraction, error) {
	m.mu.Lock()
	m.extractCalls = append(m.extractCalls, text)
	m.mu.Unlock()
	return m.ExtractFunc(ctx, text)
}

type classifierMock struct {
	ScoresFunc func(ctx context.Context, text string) ([]domain.EmotionScore, error)

	mu    sync.Mutex
	calls []string
}

func (m *classifierMock) Scores(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	return m.ScoresFunc(ctx, text)
}

type ticketCall struct {
	Title       string
	Description string
}

type ticketCreatorMock struct {
	CreateTicketFunc func(ctx context.Context, title, description string) (domain.Ticket, error)

	mu    sync.Mutex
	calls []ticketCall
}

func (m *ticketCreatorMock) CreateTicket(ctx context.Context, title, description string) (domain.Ticket, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticketCall{Title: title, Description: description})
	m.mu.Unlock()
	return m.CreateTicketFunc(ctx, title, description)
}

type recordRepoMock struct {
	CreateFunc func(ctx context.Context, rec *domain.VoiceRecord) (*domain.VoiceRecord, error)

	mu    sync.Mutex
	calls []domain.VoiceRecord
}

func (m *recordRepoMock) Create(ctx context.Context, rec *domain.VoiceRecord) (*domain.VoiceRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, *rec)
	m.mu.Unlock()
	return m.CreateFunc(ctx, rec)
}
