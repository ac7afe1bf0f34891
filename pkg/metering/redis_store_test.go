package metering_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/plan"
)

func newRedisStore(t *testing.T) *metering.RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return metering.NewRedisStore(client)
}

func TestRedisStoreConsumeLifecycle(t *testing.T) {
	t.Parallel()

	store := newRedisStore(t)
	ctx := context.Background()
	key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts}
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	for want := int64(1); want <= 3; want++ {
		usage, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, now)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, usage.Count)
	}

	// At quota: denied without mutation.
	usage, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, now)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(3), usage.Count)

	snap, exists, err := store.Snapshot(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, int64(3), snap.Count)
}

func TestRedisStoreDailyRollover(t *testing.T) {
	t.Parallel()

	store := newRedisStore(t)
	ctx := context.Background()
	key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts}

	lateNight := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	for range 2 {
		_, allowed, err := store.Consume(ctx, key, plan.Bounded(2), plan.PeriodDaily, lateNight)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	_, allowed, err := store.Consume(ctx, key, plan.Bounded(2), plan.PeriodDaily, lateNight)
	require.NoError(t, err)
	require.False(t, allowed)

	// Two minutes later the calendar date changed, so the counter resets in
	// place and the consuming call is counted as the first of the new day.
	nextDay := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)
	usage, allowed, err := store.Consume(ctx, key, plan.Bounded(2), plan.PeriodDaily, nextDay)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), usage.Count)
	assert.Equal(t, nextDay.UnixMilli(), usage.LastReset.UnixMilli())
}

func TestRedisStoreMonthlyRollover(t *testing.T) {
	t.Parallel()

	store := newRedisStore(t)
	ctx := context.Background()
	key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureTitles}

	jan31 := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	_, allowed, err := store.Consume(ctx, key, plan.Bounded(1), plan.PeriodMonthly, jan31)
	require.NoError(t, err)
	require.True(t, allowed)

	// Feb 1 is a new (year, month) even though far less than a month elapsed.
	feb1 := time.Date(2026, 2, 1, 0, 30, 0, 0, time.UTC)
	usage, allowed, err := store.Consume(ctx, key, plan.Bounded(1), plan.PeriodMonthly, feb1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), usage.Count)
}

func TestRedisStoreUnbounded(t *testing.T) {
	t.Parallel()

	store := newRedisStore(t)
	ctx := context.Background()
	key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureThumbnails}
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	for want := int64(1); want <= 50; want++ {
		usage, allowed, err := store.Consume(ctx, key, plan.Unbounded(), plan.PeriodMonthly, now)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, usage.Count, "unbounded consumption still counts for audit")
	}
}

func TestRedisStoreSnapshotMissing(t *testing.T) {
	t.Parallel()

	store := newRedisStore(t)

	_, exists, err := store.Snapshot(context.Background(),
		metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts})
	require.NoError(t, err)
	assert.False(t, exists)
}
