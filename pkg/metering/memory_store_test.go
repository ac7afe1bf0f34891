package metering_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/plan"
)

func TestMemoryStoreConsume(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	day1 := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)

	t.Run("lazy creation and increment", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryStore()
		key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts}

		usage, allowed, err := store.Consume(ctx, key, plan.Bounded(5), plan.PeriodDaily, day1)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(1), usage.Count)
		assert.Equal(t, day1, usage.LastReset)
	})

	t.Run("denied at limit without mutation", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryStore()
		key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts}

		for range 3 {
			_, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, day1)
			require.NoError(t, err)
			require.True(t, allowed)
		}

		usage, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, day1.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(3), usage.Count)

		snap, ok, err := store.Snapshot(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(3), snap.Count)
		assert.Equal(t, day1, snap.LastReset, "denied consume must not move lastReset")
	})

	t.Run("reset in place across the boundary", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryStore()
		key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureThumbnails}

		lateNight := time.Date(2025, 7, 14, 23, 59, 0, 0, time.UTC)
		for range 3 {
			_, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, lateNight)
			require.NoError(t, err)
			require.True(t, allowed)
		}

		nextDay := time.Date(2025, 7, 15, 0, 1, 0, 0, time.UTC)
		usage, allowed, err := store.Consume(ctx, key, plan.Bounded(3), plan.PeriodDaily, nextDay)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(1), usage.Count, "reset then count the consuming action")
		assert.Equal(t, nextDay, usage.LastReset)
	})

	t.Run("unbounded keeps counting", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryStore()
		key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureTitles}

		var usage metering.Usage
		for range 100 {
			var allowed bool
			var err error
			usage, allowed, err = store.Consume(ctx, key, plan.Unbounded(), plan.PeriodMonthly, day1)
			require.NoError(t, err)
			require.True(t, allowed)
		}
		assert.Equal(t, int64(100), usage.Count)
	})

	t.Run("snapshot of missing record", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryStore()
		_, ok, err := store.Snapshot(ctx, metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := metering.NewMemoryStore()
	key := metering.Key{UserID: uuid.New(), Feature: plan.FeatureScripts}
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)

	const quota = 50
	const attempts = 200

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, allowed, err := store.Consume(ctx, key, plan.Bounded(quota), plan.PeriodDaily, now)
			require.NoError(t, err)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, quota, allowedCount, "exactly quota consumptions may win the race")

	usage, ok, err := store.Snapshot(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(quota), usage.Count, "count never exceeds quota")
}
