package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/entitlement"
	"github.com/lumigen/lumigen/pkg/plan"
)

func TestHasAccess(t *testing.T) {
	t.Parallel()

	resolver := entitlement.NewResolver(plan.DefaultCatalog())

	tests := []struct {
		name string
		tier plan.Tier
		flag plan.Flag
		want bool
	}{
		{"free has no niche finder", plan.TierFree, plan.FlagNicheFinder, false},
		{"free has no ctr scoring", plan.TierFree, plan.FlagTitleCTRScoring, false},
		{"creator has niche finder", plan.TierCreator, plan.FlagNicheFinder, true},
		{"creator has hot niche feed", plan.TierCreator, plan.FlagHotNicheFeed, true},
		{"pro has faceless filtering", plan.TierPro, plan.FlagFacelessFiltering, true},
		{"pro has monetization score", plan.TierPro, plan.FlagMonetizationScore, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.HasAccess(tt.tier, tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown tier uses free flags", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.HasAccess(plan.Tier("vip"), plan.FlagHotNicheFeed)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("unknown flag is a programming error", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.HasAccess(plan.TierPro, plan.Flag("teleportation"))
		assert.ErrorIs(t, err, entitlement.ErrUnknownFlag)
	})
}
