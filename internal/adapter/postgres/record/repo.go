// Package record implements the voice record store using PostgreSQL.
// Records are append-only: there is no update or delete path.
package record

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

const table = "voice_records"

var columns = []string{
	"id", "job_id", "source_name", "transcript", "summary", "emotion",
	"progress", "next_steps", "blockers", "ticket_url", "created_at",
}

// Repo provides voice record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new voice record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID         int64     `db:"id"`
	JobID      uuid.UUID `db:"job_id"`
	SourceName string    `db:"source_name"`
	Transcript string    `db:"transcript"`
	Summary    string    `db:"summary"`
	Emotion    string    `db:"emotion"`
	Progress   []string  `db:"progress"`
	NextSteps  []string  `db:"next_steps"`
	Blockers   []string  `db:"blockers"`
	TicketURL  *string   `db:"ticket_url"`
	CreatedAt  time.Time `db:"created_at"`
}

// Create inserts a record and returns it with its assigned id.
// Inserting again for the same job returns the record already stored for
// that job, so a redelivered job never produces a second record.
func (r *Repo) Create(ctx context.Context, rec *domain.VoiceRecord) (*domain.VoiceRecord, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("job_id", "source_name", "transcript", "summary", "emotion",
			"progress", "next_steps", "blockers", "ticket_url", "created_at").
		Values(rec.JobID, rec.SourceName, rec.Transcript, rec.Summary, string(rec.Emotion),
			nonNil(rec.Progress), nonNil(rec.NextSteps), nonNil(rec.Blockers), rec.TicketURL, rec.CreatedAt).
		Suffix("ON CONFLICT (job_id) DO UPDATE SET job_id = EXCLUDED.job_id RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.Create: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, postgres.MapError(err, "voice_record for job", rec.JobID)
	}

	created := toDomain(out)
	return &created, nil
}

// GetByID returns a record by primary key.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.VoiceRecord, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.GetByID: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, query, args...); err != nil {
		return nil, postgres.MapError(err, "voice_record", id)
	}

	rec := toDomain(out)
	return &rec, nil
}

// List returns every record, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.VoiceRecord, error) {
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC"))
}

// ListSince returns records created at or after since, oldest first.
func (r *Repo) ListSince(ctx context.Context, since time.Time) ([]domain.VoiceRecord, error) {
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC", "id ASC"))
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.VoiceRecord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.list: build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list voice_records: %w", err)
	}

	records := make([]domain.VoiceRecord, len(rows))
	for i, row := range rows {
		records[i] = toDomain(row)
	}
	return records, nil
}

func toDomain(r row) domain.VoiceRecord {
	return domain.VoiceRecord{
		ID:         r.ID,
		JobID:      r.JobID,
		SourceName: r.SourceName,
		Transcript: r.Transcript,
		Summary:    r.Summary,
		Emotion:    domain.Emotion(r.Emotion),
		Progress:   nonNil(r.Progress),
		NextSteps:  nonNil(r.NextSteps),
		Blockers:   nonNil(r.Blockers),
		TicketURL:  r.TicketURL,
		CreatedAt:  r.CreatedAt,
	}
}

func returning() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
