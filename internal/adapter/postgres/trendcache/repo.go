// Package trendcache stores the latest trends snapshot in PostgreSQL, one
// row per cache key. Concurrent writers race and the last Put wins.
package trendcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/scrumbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

const table = "trend_cache"

// Repo provides trends cache persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new trends cache repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Put stores snap under key until now+ttl, replacing any previous entry.
func (r *Repo) Put(ctx context.Context, key string, snap domain.TrendsSnapshot, now time.Time, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("trendcache.Put: marshal: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("cache_key", "payload", "created_at", "expires_at").
		Values(key, payload, now, now.Add(ttl)).
		Suffix(`ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("trendcache.Put: build query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("put trend cache %s: %w", key, err)
	}
	return nil
}

// Get returns the snapshot stored under key.
// Returns domain.ErrNotFound if the key is absent or expired at now.
func (r *Repo) Get(ctx context.Context, key string, now time.Time) (*domain.TrendsSnapshot, error) {
	query, args, err := postgres.Builder().
		Select("payload").
		From(table).
		Where(sq.Eq{"cache_key": key}).
		Where(sq.Gt{"expires_at": now}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("trendcache.Get: build query: %w", err)
	}

	var payload []byte
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		return nil, postgres.MapError(err, "trend cache", key)
	}

	var snap domain.TrendsSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("trendcache.Get: unmarshal: %w", err)
	}
	return &snap, nil
}

// PurgeExpired deletes entries that expired at or before now.
func (r *Repo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("trendcache.PurgeExpired: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge trend cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
