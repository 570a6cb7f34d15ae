// Package pipeline turns an uploaded standup recording into a stored voice
// record: transcribe, clean, extract, classify, ticket, persist. Stages run
// strictly in order on one goroutine.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type languageModel interface {
	Clean(ctx context.Context, chunk string) (string, error)
	Extract(ctx context.Context, text string) (domain.Extraction, error)
}

type emotionClassifier interface {
	Scores(ctx context.Context, text string) ([]domain.EmotionScore, error)
}

type ticketCreator interface {
	CreateTicket(ctx context.Context, title, description string) (domain.Ticket, error)
}

type recordRepo interface {
	Create(ctx context.Context, rec *domain.VoiceRecord) (*domain.VoiceRecord, error)
}

// Deps are the collaborators of the pipeline. Tickets may be nil, which
// disables ticket creation.
type Deps struct {
	Transcriber transcriber
	LLM         languageModel
	Classifier  emotionClassifier
	Tickets     ticketCreator
	Records     recordRepo
}

// Service runs the audio processing pipeline.
type Service struct {
	deps Deps
	cfg  config.PipelineConfig
	now  func() time.Time
	log  *slog.Logger
}

// NewService creates a new pipeline service.
func NewService(log *slog.Logger, deps Deps, cfg config.PipelineConfig) *Service {
	return &Service{
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
		log:  log.With("service", "pipeline"),
	}
}

// run holds the state of one Process call.
type run struct {
	log            *slog.Logger
	failOnDegraded bool
	degradations   []domain.Degradation
}
