// Package worker runs queued jobs: a fixed set of claim loops plus a reaper
// that fails jobs whose workers disappeared.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	"github.com/heartmarshall/scrumbot-backend/pkg/ctxutil"
)

// reportTimeout bounds the final Complete/Fail call, which runs even after
// shutdown has started.
const reportTimeout = 10 * time.Second

// Handler executes one job and returns its JSON result.
type Handler interface {
	HandleJob(ctx context.Context, j *domain.Job) (json.RawMessage, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, j *domain.Job) (json.RawMessage, error)

func (f HandlerFunc) HandleJob(ctx context.Context, j *domain.Job) (json.RawMessage, error) {
	return f(ctx, j)
}

type queue interface {
	Claim(ctx context.Context, tasks []domain.Task) (*domain.Job, error)
	Complete(ctx context.Context, j *domain.Job, result json.RawMessage) error
	Fail(ctx context.Context, j *domain.Job, cause error) error
	Reap(ctx context.Context) (int64, error)
}

// Runner pulls jobs for the registered tasks and executes them.
type Runner struct {
	queue    queue
	handlers map[domain.Task]Handler
	tasks    []domain.Task
	cfg      config.QueueConfig
	log      *slog.Logger
}

// NewRunner creates a Runner that claims only the tasks present in handlers.
func NewRunner(log *slog.Logger, q queue, handlers map[domain.Task]Handler, cfg config.QueueConfig) *Runner {
	tasks := make([]domain.Task, 0, len(handlers))
	for t := range handlers {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i] < tasks[j] })

	return &Runner{
		queue:    q,
		handlers: handlers,
		tasks:    tasks,
		cfg:      cfg,
		log:      log.With("component", "worker"),
	}
}

// Run blocks until ctx is cancelled. Cancellation stops claiming; a job
// already running is finished (or times out) and reported before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.tasks) == 0 {
		return errors.New("worker: no handlers registered")
	}

	r.log.InfoContext(ctx, "worker started",
		slog.Int("loops", r.cfg.Workers),
		slog.Any("tasks", r.tasks),
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		log := r.log.With(slog.Int("loop", i))
		g.Go(func() error {
			r.loop(gctx, log)
			return nil
		})
	}
	g.Go(func() error {
		r.reapLoop(gctx)
		return nil
	})

	err := g.Wait()
	r.log.Info("worker stopped")
	return err
}

func (r *Runner) loop(ctx context.Context, log *slog.Logger) {
	for ctx.Err() == nil {
		j, err := r.queue.Claim(ctx, r.tasks)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.ErrorContext(ctx, "claim failed", slog.String("error", err.Error()))
			sleep(ctx, r.cfg.PollInterval)
			continue
		}
		if j == nil {
			sleep(ctx, r.cfg.PollInterval)
			continue
		}
		r.execute(ctx, log, j)
	}
}

func (r *Runner) execute(ctx context.Context, log *slog.Logger, j *domain.Job) {
	ctx = ctxutil.WithJobID(ctx, j.ID.String())
	log = log.With(
		slog.String("task", string(j.Task)),
		slog.Int("attempt", j.Attempts),
	)

	start := time.Now()
	result, err := r.run(ctx, log, j)
	elapsed := time.Since(start)

	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	if err != nil {
		stage, msg := domain.StageOf(err), err.Error()
		log.WarnContext(ctx, "job failed",
			slog.String("stage", string(stage)),
			slog.String("error", msg),
			slog.Duration("duration", elapsed),
		)
		r.report(reportCtx, log, r.queue.Fail(reportCtx, j, err))
		return
	}

	log.InfoContext(ctx, "job succeeded", slog.Duration("duration", elapsed))
	r.report(reportCtx, log, r.queue.Complete(reportCtx, j, result))
}

// run invokes the handler under the job timeout. The handler context is
// detached from ctx so shutdown does not abort a job mid-stage.
func (r *Runner) run(ctx context.Context, log *slog.Logger, j *domain.Job) (result json.RawMessage, err error) {
	h, ok := r.handlers[j.Task]
	if !ok {
		return nil, fmt.Errorf("no handler for task %q", j.Task)
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.JobTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			log.ErrorContext(ctx, "panic in job handler",
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())),
			)
			result, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()

	result, err = h.HandleJob(runCtx, j)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = timedOut(err, r.cfg.JobTimeout)
	}
	return result, err
}

// timedOut replaces err with a timeout message, keeping the stage that was
// running when the deadline hit.
func timedOut(err error, limit time.Duration) error {
	cause := fmt.Errorf("timed out after %s", limit)
	if stage := domain.StageOf(err); stage != "" {
		return domain.NewStageError(stage, cause)
	}
	return cause
}

func (r *Runner) report(ctx context.Context, log *slog.Logger, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		log.WarnContext(ctx, "lease lost before report, result dropped")
	default:
		log.ErrorContext(ctx, "report job", slog.String("error", err.Error()))
	}
}

func (r *Runner) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.queue.Reap(ctx); err != nil && ctx.Err() == nil {
				r.log.ErrorContext(ctx, "reap", slog.String("error", err.Error()))
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
