package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// SeedRecord inserts a voice record created at the given time and returns it
// with its assigned id.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, createdAt time.Time, emotion domain.Emotion, blockers ...string) domain.VoiceRecord {
	t.Helper()

	if blockers == nil {
		blockers = []string{}
	}
	rec := domain.VoiceRecord{
		JobID:      uuid.New(),
		SourceName: "seed-" + uuid.New().String()[:8] + ".wav",
		Transcript: "Yesterday I worked on the API.",
		Summary:    "Worked on the API.",
		Emotion:    emotion,
		Progress:   []string{"API"},
		NextSteps:  []string{"tests"},
		Blockers:   blockers,
		CreatedAt:  createdAt.UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO voice_records (job_id, source_name, transcript, summary, emotion, progress, next_steps, blockers, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rec.JobID, rec.SourceName, rec.Transcript, rec.Summary, string(rec.Emotion),
		rec.Progress, rec.NextSteps, rec.Blockers, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord: %v", err)
	}

	return rec
}
