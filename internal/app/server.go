package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/filestore"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/job"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/trendcache"
	"github.com/heartmarshall/scrumbot-backend/internal/service/intake"
	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
	"github.com/heartmarshall/scrumbot-backend/internal/service/report"
	"github.com/heartmarshall/scrumbot-backend/internal/service/trend"
	"github.com/heartmarshall/scrumbot-backend/internal/service/voicelog"
	"github.com/heartmarshall/scrumbot-backend/internal/transport/middleware"
	"github.com/heartmarshall/scrumbot-backend/internal/transport/rest"
)

// RunServer serves the HTTP API until ctx is cancelled, then drains
// in-flight requests for up to the configured shutdown timeout.
func RunServer(ctx context.Context) error {
	e, err := bootstrap(ctx, "server")
	if err != nil {
		return err
	}
	defer e.close()

	cfg, log := e.cfg, e.log

	files, err := filestore.New(cfg.Storage, log)
	if err != nil {
		return err
	}

	records := record.New(e.pool)
	jobs := jobsvc.NewService(log, job.New(e.pool), cfg.Queue)
	trends := trend.NewService(log, records, trendcache.New(e.pool), cfg.Trends)
	intakeSvc := intake.NewService(log, files, jobs)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := rest.NewRouter(log, rest.Handlers{
		Voice:    rest.NewVoiceHandler(intakeSvc, jobs, voicelog.NewService(log, records), log),
		Insights: rest.NewInsightsHandler(intakeSvc, trends, report.NewService(log, records), log),
		Admin:    rest.NewAdminHandler(jobs, log),
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.Check{Name: "database", Probe: e.pool.Ping},
			rest.Check{Name: "uploads", Probe: files.Ping},
		),
	}, cfg.Server, cfg.CORS, limiter)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
