package metering

import (
	"context"
	"time"

	"github.com/lumigen/lumigen/pkg/plan"
)

// Store owns all usage records. Records are created lazily on first Consume
// and reset in place when a period boundary is crossed; they are never
// deleted during a user's lifetime.
type Store interface {
	// Consume applies the period rollover for key and, if the quota still has
	// room (or is unbounded), increments the counter. The rollover, check,
	// and increment happen atomically per key: two racing calls can not both
	// take the last quota slot. It returns the resulting usage and whether
	// the consumption was allowed. Denied calls leave the record untouched.
	Consume(ctx context.Context, key Key, quota plan.Quota, period plan.Period, now time.Time) (Usage, bool, error)

	// Snapshot returns the stored usage for key without mutating anything.
	// The second result is false when no record exists yet. Snapshots are
	// stale-read tolerant; they take no per-key lock.
	Snapshot(ctx context.Context, key Key) (Usage, bool, error)
}
