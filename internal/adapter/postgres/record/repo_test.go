package record_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

func newRepo(t *testing.T) (*record.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return record.New(pool), pool
}

func buildRecord(createdAt time.Time) *domain.VoiceRecord {
	return &domain.VoiceRecord{
		JobID:      uuid.New(),
		SourceName: "standup.wav",
		Transcript: "I finished the login page. I am blocked on the staging database.",
		Summary:    "Finished login page, blocked on staging DB.",
		Emotion:    domain.EmotionNeutral,
		Progress:   []string{"login page"},
		NextSteps:  []string{"signup page"},
		Blockers:   []string{"staging database"},
		CreatedAt:  createdAt.UTC().Truncate(time.Microsecond),
	}
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	url := "https://acme.atlassian.net/browse/SCRUM-1"
	input := buildRecord(time.Now())
	input.TicketURL = &url

	got, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID == 0 {
		t.Error("expected assigned ID")
	}
	if got.JobID != input.JobID {
		t.Errorf("JobID mismatch: got %s, want %s", got.JobID, input.JobID)
	}
	if len(got.Blockers) != 1 || got.Blockers[0] != "staging database" {
		t.Errorf("Blockers mismatch: got %v", got.Blockers)
	}
	if got.TicketURL == nil || *got.TicketURL != url {
		t.Errorf("TicketURL mismatch: got %v, want %s", got.TicketURL, url)
	}
	if !got.CreatedAt.Equal(input.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, input.CreatedAt)
	}
}

func TestRepo_Create_EmptyListsRoundTrip(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildRecord(time.Now())
	input.Progress, input.NextSteps, input.Blockers = nil, nil, nil

	got, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	fetched, err := repo.GetByID(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if fetched.Progress == nil || fetched.NextSteps == nil || fetched.Blockers == nil {
		t.Errorf("expected empty non-nil lists, got %v %v %v", fetched.Progress, fetched.NextSteps, fetched.Blockers)
	}
	if fetched.TicketURL != nil {
		t.Errorf("expected nil TicketURL, got %v", *fetched.TicketURL)
	}
}

func TestRepo_Create_SameJobIsIdempotent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	input := buildRecord(time.Now())
	first, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	retry := *input
	retry.Summary = "second delivery"
	second, err := repo.Create(ctx, &retry)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same record ID on redelivery, got %d and %d", first.ID, second.ID)
	}
	if second.Summary != first.Summary {
		t.Errorf("redelivery overwrote summary: got %q", second.Summary)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM voice_records WHERE job_id = $1`, input.JobID).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row for job, got %d", count)
	}
}

func TestRepo_Create_DuplicateSourceNameAllowed(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	a := buildRecord(time.Now())
	b := buildRecord(time.Now())

	first, err := repo.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	second, err := repo.Create(ctx, b)
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}
	if first.ID == second.ID {
		t.Error("expected distinct records for distinct jobs with the same source name")
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), -1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_List_NewestFirst(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	base := time.Now().Add(24 * time.Hour)
	older := testhelper.SeedRecord(t, pool, base, domain.EmotionJoy)
	newer := testhelper.SeedRecord(t, pool, base.Add(time.Minute), domain.EmotionFear)

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}

	olderIdx, newerIdx := -1, -1
	for i, r := range got {
		switch r.ID {
		case older.ID:
			olderIdx = i
		case newer.ID:
			newerIdx = i
		}
	}
	if olderIdx == -1 || newerIdx == -1 {
		t.Fatalf("seeded records missing from list of %d", len(got))
	}
	if newerIdx > olderIdx {
		t.Errorf("expected newer record before older, got positions %d and %d", newerIdx, olderIdx)
	}
}

func TestRepo_ListSince_OldestFirstAndBounded(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	// Far in the future so records from parallel tests do not interleave.
	base := time.Date(2100, 1, 1, 9, 0, 0, 0, time.UTC)
	before := testhelper.SeedRecord(t, pool, base.Add(-time.Hour), domain.EmotionSadness)
	first := testhelper.SeedRecord(t, pool, base, domain.EmotionJoy, "VPN")
	second := testhelper.SeedRecord(t, pool, base.Add(time.Hour), domain.EmotionAnger)

	got, err := repo.ListSince(ctx, base)
	if err != nil {
		t.Fatalf("ListSince: unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("order mismatch: got %d, %d; want %d, %d", got[0].ID, got[1].ID, first.ID, second.ID)
	}
	for _, r := range got {
		if r.ID == before.ID {
			t.Error("record before window should be excluded")
		}
	}
	if len(got[0].Blockers) != 1 || got[0].Blockers[0] != "VPN" {
		t.Errorf("blockers mismatch: got %v", got[0].Blockers)
	}
}
