package plan

import (
	"errors"
	"fmt"
	"maps"
)

// Catalog is an immutable mapping from tier to limits. Build one at startup
// via NewCatalog, DefaultCatalog, or LoadYAMLCatalog; it is safe for
// concurrent readers because it is never mutated afterwards.
type Catalog struct {
	limits map[Tier]Limits
}

// NewCatalog validates the given limits and returns a catalog. Validation
// fails if the free tier is absent, if any tier misses a quota for a
// meterable feature or an entry for a capability flag, or if a reset period
// is unknown. Failing here keeps "lookups never miss" true for the whole
// process lifetime.
func NewCatalog(limits map[Tier]Limits) (*Catalog, error) {
	if _, ok := limits[TierFree]; !ok {
		return nil, ErrMissingFreeTier
	}

	for tier, l := range limits {
		switch l.ResetPeriod {
		case PeriodDaily, PeriodMonthly:
		default:
			return nil, errors.Join(ErrInvalidPeriod,
				fmt.Errorf("tier %q has reset period %q", tier, l.ResetPeriod))
		}
		for _, f := range Features() {
			if _, ok := l.Quotas[f]; !ok {
				return nil, errors.Join(ErrMissingQuota,
					fmt.Errorf("tier %q has no quota for feature %q", tier, f))
			}
		}
		for _, f := range Flags() {
			if _, ok := l.Flags[f]; !ok {
				return nil, errors.Join(ErrMissingFlag,
					fmt.Errorf("tier %q has no entry for flag %q", tier, f))
			}
		}
	}

	cp := make(map[Tier]Limits, len(limits))
	for tier, l := range limits {
		l.Quotas = maps.Clone(l.Quotas)
		l.Flags = maps.Clone(l.Flags)
		cp[tier] = l
	}
	return &Catalog{limits: cp}, nil
}

// MustCatalog panics on invalid limits. Intended for the built-in defaults
// and tests, where a broken catalog should stop the process immediately.
func MustCatalog(limits map[Tier]Limits) *Catalog {
	c, err := NewCatalog(limits)
	if err != nil {
		panic(err)
	}
	return c
}

// LimitsFor returns the limits for a tier. It is a total function: an
// unrecognized tier falls back to the free tier so a bad profile value can
// only ever shrink capabilities.
func (c *Catalog) LimitsFor(tier Tier) Limits {
	if l, ok := c.limits[tier]; ok {
		return l
	}
	return c.limits[TierFree]
}

// All returns the catalog content keyed by tier, for the public pricing
// endpoint. The returned map is a shallow copy; callers must not mutate the
// nested maps.
func (c *Catalog) All() map[Tier]Limits {
	return maps.Clone(c.limits)
}

// DefaultCatalog returns the built-in plan set.
func DefaultCatalog() *Catalog {
	return MustCatalog(map[Tier]Limits{
		TierFree: {
			Tier:        TierFree,
			Name:        "Free",
			Description: "Perfect for trying out LumiGen",
			PriceUSD:    0,
			Quotas: map[Feature]Quota{
				FeatureScripts:    Bounded(5),
				FeatureTitles:     Bounded(10),
				FeatureThumbnails: Bounded(3),
			},
			ResetPeriod: PeriodDaily,
			Flags: map[Flag]bool{
				FlagNicheFinder:       false,
				FlagHotNicheFeed:      false,
				FlagTitleCTRScoring:   false,
				FlagFacelessFiltering: false,
				FlagMonetizationScore: false,
			},
		},
		TierCreator: {
			Tier:        TierCreator,
			Name:        "Creator",
			Description: "For growing content creators",
			PriceUSD:    19,
			Quotas: map[Feature]Quota{
				FeatureScripts:    Bounded(100),
				FeatureTitles:     Bounded(200),
				FeatureThumbnails: Bounded(30),
			},
			ResetPeriod: PeriodMonthly,
			Flags: map[Flag]bool{
				FlagNicheFinder:       true,
				FlagHotNicheFeed:      true,
				FlagTitleCTRScoring:   true,
				FlagFacelessFiltering: true,
				FlagMonetizationScore: true,
			},
		},
		TierPro: {
			Tier:        TierPro,
			Name:        "Pro",
			Description: "For professional creators",
			PriceUSD:    49,
			Quotas: map[Feature]Quota{
				FeatureScripts:    Unbounded(),
				FeatureTitles:     Unbounded(),
				FeatureThumbnails: Unbounded(),
			},
			ResetPeriod: PeriodMonthly,
			Flags: map[Flag]bool{
				FlagNicheFinder:       true,
				FlagHotNicheFeed:      true,
				FlagTitleCTRScoring:   true,
				FlagFacelessFiltering: true,
				FlagMonetizationScore: true,
			},
		},
	})
}
