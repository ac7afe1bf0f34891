package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/plan"
)

func TestParseTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want plan.Tier
	}{
		{"free", plan.TierFree},
		{"creator", plan.TierCreator},
		{"pro", plan.TierPro},
		{"PRO", plan.TierPro},
		{"  creator ", plan.TierCreator},
		{"enterprise", plan.TierFree},
		{"", plan.TierFree},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, plan.ParseTier(tt.in), "input %q", tt.in)
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog := plan.DefaultCatalog()

	t.Run("free tier quotas and daily reset", func(t *testing.T) {
		t.Parallel()

		l := catalog.LimitsFor(plan.TierFree)
		assert.Equal(t, plan.PeriodDaily, l.ResetPeriod)

		q, ok := l.Quota(plan.FeatureScripts)
		require.True(t, ok)
		assert.Equal(t, int64(5), q.Limit())

		q, ok = l.Quota(plan.FeatureTitles)
		require.True(t, ok)
		assert.Equal(t, int64(10), q.Limit())

		q, ok = l.Quota(plan.FeatureThumbnails)
		require.True(t, ok)
		assert.Equal(t, int64(3), q.Limit())
	})

	t.Run("pro tier is unbounded", func(t *testing.T) {
		t.Parallel()

		l := catalog.LimitsFor(plan.TierPro)
		assert.Equal(t, plan.PeriodMonthly, l.ResetPeriod)
		for _, f := range plan.Features() {
			q, ok := l.Quota(f)
			require.True(t, ok)
			assert.True(t, q.IsUnbounded(), "feature %q", f)
		}
	})

	t.Run("every tier defines every feature and flag", func(t *testing.T) {
		t.Parallel()

		for _, tier := range plan.Tiers() {
			l := catalog.LimitsFor(tier)
			for _, f := range plan.Features() {
				_, ok := l.Quota(f)
				assert.True(t, ok, "tier %q feature %q", tier, f)
			}
			for _, f := range plan.Flags() {
				_, ok := l.HasFlag(f)
				assert.True(t, ok, "tier %q flag %q", tier, f)
			}
		}
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, catalog.LimitsFor(plan.TierFree), catalog.LimitsFor(plan.Tier("nonexistent-plan")))
	})
}

func TestNewCatalogValidation(t *testing.T) {
	t.Parallel()

	base := func() map[plan.Tier]plan.Limits {
		return map[plan.Tier]plan.Limits{
			plan.TierFree: {
				Tier:        plan.TierFree,
				Name:        "Free",
				ResetPeriod: plan.PeriodDaily,
				Quotas: map[plan.Feature]plan.Quota{
					plan.FeatureScripts:    plan.Bounded(5),
					plan.FeatureTitles:     plan.Bounded(10),
					plan.FeatureThumbnails: plan.Bounded(3),
				},
				Flags: map[plan.Flag]bool{
					plan.FlagNicheFinder:       false,
					plan.FlagHotNicheFeed:      false,
					plan.FlagTitleCTRScoring:   false,
					plan.FlagFacelessFiltering: false,
					plan.FlagMonetizationScore: false,
				},
			},
		}
	}

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		c, err := plan.NewCatalog(base())
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("missing free tier", func(t *testing.T) {
		t.Parallel()

		limits := base()
		limits[plan.TierPro] = limits[plan.TierFree]
		delete(limits, plan.TierFree)

		_, err := plan.NewCatalog(limits)
		assert.ErrorIs(t, err, plan.ErrMissingFreeTier)
	})

	t.Run("missing quota", func(t *testing.T) {
		t.Parallel()

		limits := base()
		delete(limits[plan.TierFree].Quotas, plan.FeatureThumbnails)

		_, err := plan.NewCatalog(limits)
		assert.ErrorIs(t, err, plan.ErrMissingQuota)
	})

	t.Run("missing flag", func(t *testing.T) {
		t.Parallel()

		limits := base()
		delete(limits[plan.TierFree].Flags, plan.FlagMonetizationScore)

		_, err := plan.NewCatalog(limits)
		assert.ErrorIs(t, err, plan.ErrMissingFlag)
	})

	t.Run("bad reset period", func(t *testing.T) {
		t.Parallel()

		limits := base()
		l := limits[plan.TierFree]
		l.ResetPeriod = "weekly"
		limits[plan.TierFree] = l

		_, err := plan.NewCatalog(limits)
		assert.ErrorIs(t, err, plan.ErrInvalidPeriod)
	})

	t.Run("catalog copies input", func(t *testing.T) {
		t.Parallel()

		limits := base()
		c, err := plan.NewCatalog(limits)
		require.NoError(t, err)

		limits[plan.TierFree].Quotas[plan.FeatureScripts] = plan.Bounded(999)

		q, _ := c.LimitsFor(plan.TierFree).Quota(plan.FeatureScripts)
		assert.Equal(t, int64(5), q.Limit())
	})
}
