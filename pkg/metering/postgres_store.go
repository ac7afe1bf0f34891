package metering

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumigen/lumigen/pkg/plan"
)

// PostgresStore implements Store on the usage_records table. Atomicity per
// key comes from a row lock: the upsert in Consume always locks the record's
// row, so the rollover, quota check, and increment run under mutual
// exclusion even across server processes. Different keys lock different
// rows and never contend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed usage store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Consume implements Store.
func (s *PostgresStore) Consume(ctx context.Context, key Key, quota plan.Quota, period plan.Period, now time.Time) (Usage, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	// The no-op DO UPDATE makes the insert return (and lock) the existing
	// row on conflict, which is what serializes concurrent consumers of the
	// same key.
	var count int64
	var lastReset time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO usage_records (user_id, feature, count, last_reset)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id, feature) DO UPDATE SET count = usage_records.count
		RETURNING count, last_reset`,
		key.UserID, key.Feature, now.UTC(),
	).Scan(&count, &lastReset)
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}

	rolled := CrossedBoundary(period, lastReset, now)
	if rolled {
		count = 0
		lastReset = now.UTC()
	}

	allowed := quota.IsUnbounded() || count < quota.Limit()
	if allowed {
		count++
	}

	if allowed || rolled {
		if _, err := tx.Exec(ctx, `
			UPDATE usage_records SET count = $3, last_reset = $4
			WHERE user_id = $1 AND feature = $2`,
			key.UserID, key.Feature, count, lastReset,
		); err != nil {
			return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	return Usage{Count: count, LastReset: lastReset}, allowed, nil
}

// Snapshot implements Store.
func (s *PostgresStore) Snapshot(ctx context.Context, key Key) (Usage, bool, error) {
	var u Usage
	err := s.pool.QueryRow(ctx,
		`SELECT count, last_reset FROM usage_records WHERE user_id = $1 AND feature = $2`,
		key.UserID, key.Feature,
	).Scan(&u.Count, &u.LastReset)
	if errors.Is(err, pgx.ErrNoRows) {
		return Usage{}, false, nil
	}
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	u.LastReset = u.LastReset.UTC()
	return u, true, nil
}
