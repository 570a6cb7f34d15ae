// Package job implements the durable job queue on a PostgreSQL table.
//
// Delivery is at-least-once. A claim takes a lease (locked_until); a running
// job whose lease lapses becomes claimable again until max_attempts is spent,
// after which ReapAbandoned fails it. Terminal transitions are fenced by the
// attempt number, so a worker whose lease was taken over cannot overwrite
// the new owner's report.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

const table = "jobs"

var columns = []string{
	"id", "task", "payload", "status", "result", "error_message", "error_stage",
	"attempts", "max_attempts", "locked_until", "enqueued_at", "started_at",
	"finished_at", "expires_at",
}

var returning = strings.Join(columns, ", ")

// claimSQL leases the oldest claimable job. SKIP LOCKED lets concurrent
// workers pass over a row another worker is claiming.
var claimSQL = `
UPDATE jobs SET
    status       = 'running',
    attempts     = attempts + 1,
    started_at   = $1,
    locked_until = $2
WHERE id = (
    SELECT id FROM jobs
    WHERE task = ANY($3)
      AND (status = 'pending'
           OR (status = 'running' AND locked_until < $1 AND attempts < max_attempts))
    ORDER BY enqueued_at, id
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + returning

const reapSQL = `
UPDATE jobs SET
    status        = 'failed',
    error_message = 'abandoned after ' || attempts || ' attempts',
    locked_until  = NULL,
    finished_at   = $1,
    expires_at    = $2
WHERE status = 'running' AND locked_until < $1 AND attempts >= max_attempts`

// Repo provides job queue persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new job repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          uuid.UUID  `db:"id"`
	Task        string     `db:"task"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	Result      []byte     `db:"result"`
	Error       *string    `db:"error_message"`
	ErrorStage  *string    `db:"error_stage"`
	Attempts    int        `db:"attempts"`
	MaxAttempts int        `db:"max_attempts"`
	LockedUntil *time.Time `db:"locked_until"`
	EnqueuedAt  time.Time  `db:"enqueued_at"`
	StartedAt   *time.Time `db:"started_at"`
	FinishedAt  *time.Time `db:"finished_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
}

// Enqueue inserts a pending job.
func (r *Repo) Enqueue(ctx context.Context, j domain.Job) (*domain.Job, error) {
	payload := j.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "task", "payload", "status", "max_attempts", "enqueued_at").
		Values(j.ID, string(j.Task), []byte(payload), string(domain.JobStatusPending), j.MaxAttempts, j.EnqueuedAt).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("job.Enqueue: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, postgres.MapError(err, "job", j.ID)
	}
	return toDomain(out), nil
}

// GetByID returns a job regardless of its expiry. Callers decide whether an
// expired job is still visible.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("job.GetByID: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, postgres.MapError(err, "job", id)
	}
	return toDomain(out), nil
}

// Claim leases the oldest claimable job of the given tasks until now+lease.
// Returns nil, nil when nothing is claimable.
func (r *Repo) Claim(ctx context.Context, tasks []domain.Task, now time.Time, lease time.Duration) (*domain.Job, error) {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t)
	}

	var out row
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, claimSQL, now, now.Add(lease), names)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim job: %w", err)
	}
	return toDomain(out), nil
}

// Complete marks a running job succeeded. attempt must match the attempt
// the caller claimed; otherwise domain.ErrConflict is returned.
func (r *Repo) Complete(ctx context.Context, id uuid.UUID, attempt int, result json.RawMessage, now time.Time, ttl time.Duration) error {
	return r.finish(ctx, id, attempt, map[string]any{
		"status": string(domain.JobStatusSucceeded),
		"result": []byte(result),
	}, now, ttl)
}

// Fail marks a running job failed with the stage that aborted it.
// An empty stage is stored as NULL.
func (r *Repo) Fail(ctx context.Context, id uuid.UUID, attempt int, stage domain.Stage, msg string, now time.Time, ttl time.Duration) error {
	var stageVal *string
	if stage != "" {
		s := string(stage)
		stageVal = &s
	}
	return r.finish(ctx, id, attempt, map[string]any{
		"status":        string(domain.JobStatusFailed),
		"error_message": msg,
		"error_stage":   stageVal,
	}, now, ttl)
}

func (r *Repo) finish(ctx context.Context, id uuid.UUID, attempt int, set map[string]any, now time.Time, ttl time.Duration) error {
	query, args, err := postgres.Builder().
		Update(table).
		SetMap(set).
		Set("locked_until", nil).
		Set("finished_at", now).
		Set("expires_at", now.Add(ttl)).
		Where(sq.Eq{
			"id":       id,
			"status":   string(domain.JobStatusRunning),
			"attempts": attempt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("job.finish: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s attempt %d: %w", id, attempt, domain.ErrConflict)
	}
	return nil
}

// ReapAbandoned fails running jobs whose lease expired with no attempts left.
// Returns the number of jobs failed.
func (r *Repo) ReapAbandoned(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, reapSQL, now, now.Add(ttl))
	if err != nil {
		return 0, fmt.Errorf("reap abandoned jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeExpired deletes finished jobs whose retention window has passed.
func (r *Repo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"status": []string{string(domain.JobStatusSucceeded), string(domain.JobStatusFailed)}}).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("job.PurgeExpired: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats returns the number of jobs in each status. Statuses with no jobs
// are absent from the map.
func (r *Repo) Stats(ctx context.Context) (map[domain.JobStatus]int64, error) {
	query, args, err := postgres.Builder().
		Select("status", "count(*) AS count").
		From(table).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("job.Stats: build query: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}

	stats := make(map[domain.JobStatus]int64, len(rows))
	for _, r := range rows {
		stats[domain.JobStatus(r.Status)] = r.Count
	}
	return stats, nil
}

func toDomain(r row) *domain.Job {
	j := &domain.Job{
		ID:          r.ID,
		Task:        domain.Task(r.Task),
		Payload:     json.RawMessage(r.Payload),
		Status:      domain.JobStatus(r.Status),
		Error:       r.Error,
		Attempts:    r.Attempts,
		MaxAttempts: r.MaxAttempts,
		LockedUntil: r.LockedUntil,
		EnqueuedAt:  r.EnqueuedAt,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		ExpiresAt:   r.ExpiresAt,
	}
	if len(r.Result) > 0 {
		j.Result = json.RawMessage(r.Result)
	}
	if r.ErrorStage != nil {
		s := domain.Stage(*r.ErrorStage)
		j.ErrorStage = &s
	}
	return j
}
