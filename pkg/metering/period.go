package metering

import (
	"time"

	"github.com/lumigen/lumigen/pkg/plan"
)

// CrossedBoundary reports whether now falls in a later period than lastReset.
// Comparison is calendar identity in UTC: a counter last reset at 23:59
// rolls over at the next midnight, not 24 hours later.
func CrossedBoundary(p plan.Period, lastReset, now time.Time) bool {
	lastReset = lastReset.UTC()
	now = now.UTC()

	switch p {
	case plan.PeriodDaily:
		ly, lm, ld := lastReset.Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd
	case plan.PeriodMonthly:
		return lastReset.Year() != now.Year() || lastReset.Month() != now.Month()
	default:
		return false
	}
}

// PeriodBucket returns the identity of the period containing now, e.g.
// "2025-07-14" for daily and "2025-07" for monthly. Two instants share a
// bucket exactly when no boundary lies between them, which lets stores
// compare buckets instead of re-deriving calendar dates.
func PeriodBucket(p plan.Period, now time.Time) string {
	now = now.UTC()
	if p == plan.PeriodMonthly {
		return now.Format("2006-01")
	}
	return now.Format("2006-01-02")
}
