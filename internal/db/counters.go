package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/ratelimit"
)

// Count returns the current counter for a rate-limit bucket, zero if absent.
func (db *DB) Count(ctx context.Context, scope string, kind ratelimit.Kind, bucketStart time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT count FROM rate_counters
		 WHERE scope = $1 AND kind = $2 AND bucket_start = $3`,
		scope, kind, bucketStart,
	).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read rate counter: %w", err)
	}
	return count, nil
}

// Increment atomically adds one to a bucket counter if it is below limit.
// The conditional update runs inside the database, so two concurrent callers
// racing for the last slot resolve to exactly one winner.
func (db *DB) Increment(ctx context.Context, scope string, kind ratelimit.Kind, bucketStart time.Time, limit int) (bool, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`INSERT INTO rate_counters (scope, kind, bucket_start, count)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (scope, kind, bucket_start) DO UPDATE
		 SET count = rate_counters.count + 1
		 WHERE rate_counters.count < $4
		 RETURNING count`,
		scope, kind, bucketStart, limit,
	).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Conditional update declined: the bucket is full.
			return false, nil
		}
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	return true, nil
}

// Decrement subtracts one from a bucket counter, never below zero. The limiter
// uses it to back out charges when a later window declines the same action.
func (db *DB) Decrement(ctx context.Context, scope string, kind ratelimit.Kind, bucketStart time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE rate_counters SET count = count - 1
		 WHERE scope = $1 AND kind = $2 AND bucket_start = $3 AND count > 0`,
		scope, kind, bucketStart,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement rate counter: %w", err)
	}
	return nil
}
