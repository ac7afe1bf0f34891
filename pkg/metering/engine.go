package metering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/plan"
)

// Engine decides and records metered feature usage. It is the sole writer of
// usage records; everything else observes snapshots only.
type Engine struct {
	catalog *plan.Catalog
	store   Store
	log     *slog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger for decision-level debug logging.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides the time source, used by tests to cross period
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns a metering engine over the given catalog and store.
func NewEngine(catalog *plan.Catalog, store Store, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		store:   store,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAndConsume is the single gate for metered actions.
//
// A zero quota denies immediately without touching any record: the feature is
// not on the plan, and the decision carries ReasonUnavailable so the caller
// can answer 403 rather than 429. An unbounded quota always allows and still
// increments the counter for audit. Otherwise the store atomically applies
// the period rollover, checks the counter against the quota, and increments
// on success; denied calls never mutate state.
//
// An unknown tier degrades to free limits via the catalog. An unknown
// feature is a configuration error and returns ErrUnknownFeature.
func (e *Engine) CheckAndConsume(ctx context.Context, userID uuid.UUID, feature plan.Feature, tier plan.Tier) (Decision, error) {
	limits := e.catalog.LimitsFor(tier)

	quota, ok := limits.Quota(feature)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}

	if quota.IsZero() {
		return Decision{Allowed: false, Remaining: plan.Bounded(0), Reason: ReasonUnavailable}, nil
	}

	usage, allowed, err := e.store.Consume(ctx, Key{UserID: userID, Feature: feature}, quota, limits.ResetPeriod, e.now().UTC())
	if err != nil {
		return Decision{}, errors.Join(ErrStoreUnavailable, err)
	}

	if !allowed {
		e.log.DebugContext(ctx, "quota exhausted",
			slog.String("user_id", userID.String()),
			slog.String("feature", string(feature)),
			slog.String("tier", string(tier)))
		return Decision{Allowed: false, Remaining: plan.Bounded(0), Reason: ReasonExhausted}, nil
	}

	return Decision{Allowed: true, Remaining: quota.Remaining(usage.Count), Reason: ReasonOK}, nil
}

// Snapshot returns the dashboard view of every meterable feature for a user.
// It reads without locking and applies the period rollover virtually: a
// counter whose boundary has passed reports zero usage while keeping the
// stored last-reset instant, since the record itself is only reset by the
// next consume.
func (e *Engine) Snapshot(ctx context.Context, userID uuid.UUID, tier plan.Tier) ([]FeatureUsage, error) {
	limits := e.catalog.LimitsFor(tier)
	now := e.now().UTC()

	out := make([]FeatureUsage, 0, len(plan.Features()))
	for _, feature := range plan.Features() {
		quota, ok := limits.Quota(feature)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
		}

		usage, exists, err := e.store.Snapshot(ctx, Key{UserID: userID, Feature: feature})
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}

		used := int64(0)
		var lastReset time.Time
		if exists {
			lastReset = usage.LastReset
			if !CrossedBoundary(limits.ResetPeriod, usage.LastReset, now) {
				used = usage.Count
			}
		}

		out = append(out, FeatureUsage{
			Feature:     feature,
			Used:        used,
			Quota:       quota,
			Remaining:   quota.Remaining(used),
			ResetPeriod: limits.ResetPeriod,
			LastReset:   lastReset,
		})
	}
	return out, nil
}
