// Package metering is the single decision point for metered feature usage:
// "may this user perform this action right now, and if so, record it".
//
// The engine combines the plan catalog (quotas, reset periods) with a usage
// store holding one counter per (user, feature) pair. Counters reset on
// calendar boundaries in UTC - a daily quota resets at midnight UTC, a
// monthly quota when the (year, month) pair changes - never on sliding
// elapsed-time windows.
//
// CheckAndConsume distinguishes two deny axes so callers can render the
// right upsell path:
//
//   - ReasonUnavailable: the plan's quota for the feature is zero; the
//     feature is not part of the plan at all. No usage record is touched.
//   - ReasonExhausted: the quota exists but is used up for the current
//     period. Denied calls never mutate state, so the counter can not
//     exceed the quota under rapid retries.
//
// Store implementations guarantee that Consume is atomic per key. The memory
// store locks per record and suits tests and single-process development; the
// Redis store runs a Lua script; the Postgres store takes a row lock inside a
// transaction. The latter two satisfy the invariant across server processes.
//
// The engine itself never retries store errors; it wraps them with
// ErrStoreUnavailable and leaves retry policy to the caller.
package metering
