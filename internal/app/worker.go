package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/job"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/trendcache"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/claude"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/emotion"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/jira"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/ollama"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/provider/whisper"
	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
	"github.com/heartmarshall/scrumbot-backend/internal/service/pipeline"
	"github.com/heartmarshall/scrumbot-backend/internal/service/trend"
	"github.com/heartmarshall/scrumbot-backend/internal/worker"
)

type languageModel interface {
	Clean(ctx context.Context, chunk string) (string, error)
	Extract(ctx context.Context, text string) (domain.Extraction, error)
}

type ticketCreator interface {
	CreateTicket(ctx context.Context, title, description string) (domain.Ticket, error)
}

// RunWorker executes process_audio and trend_analysis jobs until ctx is
// cancelled.
func RunWorker(ctx context.Context) error {
	e, err := bootstrap(ctx, "worker")
	if err != nil {
		return err
	}
	defer e.close()

	cfg, log := e.cfg, e.log

	llm, err := newLanguageModel(cfg.LLM, log)
	if err != nil {
		return err
	}
	tickets := newTicketCreator(cfg.Jira, log)

	records := record.New(e.pool)
	jobs := jobsvc.NewService(log, job.New(e.pool), cfg.Queue)

	pipe := pipeline.NewService(log, pipeline.Deps{
		Transcriber: whisper.New(cfg.Transcriber, log),
		LLM:         llm,
		Classifier:  emotion.New(cfg.Emotion, log),
		Tickets:     tickets,
		Records:     records,
	}, cfg.Pipeline)
	trends := trend.NewService(log, records, trendcache.New(e.pool), cfg.Trends)

	runner := worker.NewRunner(log, jobs, map[domain.Task]worker.Handler{
		domain.TaskProcessAudio:  pipe,
		domain.TaskTrendAnalysis: trends,
	}, cfg.Queue)

	return runner.Run(ctx)
}

func newLanguageModel(cfg config.LLMConfig, log *slog.Logger) (languageModel, error) {
	switch cfg.Provider {
	case config.LLMProviderAnthropic:
		return claude.New(cfg, log), nil
	case config.LLMProviderOllama:
		return ollama.New(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// newTicketCreator returns nil when ticketing is disabled.
func newTicketCreator(cfg config.JiraConfig, log *slog.Logger) ticketCreator {
	switch {
	case !cfg.Enabled:
		log.Info("ticket creation disabled")
		return nil
	case cfg.Mock:
		return jira.NewStub(cfg.BaseURL, log)
	default:
		return jira.New(cfg, log)
	}
}
