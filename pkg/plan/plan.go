package plan

// Feature is a meterable action with a per-period quota.
type Feature string

const (
	FeatureScripts    Feature = "scripts"
	FeatureTitles     Feature = "titles"
	FeatureThumbnails Feature = "thumbnails"
)

// Features lists all meterable features. Catalog validation checks every tier
// against this set.
func Features() []Feature {
	return []Feature{FeatureScripts, FeatureTitles, FeatureThumbnails}
}

// Flag is a boolean capability gated by plan, not counted.
type Flag string

const (
	FlagNicheFinder       Flag = "niche_finder"
	FlagHotNicheFeed      Flag = "hot_niche_feed"
	FlagTitleCTRScoring   Flag = "title_ctr_scoring"
	FlagFacelessFiltering Flag = "faceless_filtering"
	FlagMonetizationScore Flag = "monetization_score"
)

// Flags lists all known capability flags.
func Flags() []Flag {
	return []Flag{
		FlagNicheFinder,
		FlagHotNicheFeed,
		FlagTitleCTRScoring,
		FlagFacelessFiltering,
		FlagMonetizationScore,
	}
}

// Period determines when usage counters roll over.
type Period string

const (
	// PeriodDaily resets at UTC midnight: calendar-date identity, not a
	// sliding 24h window.
	PeriodDaily Period = "daily"
	// PeriodMonthly resets when the UTC (year, month) pair changes.
	PeriodMonthly Period = "monthly"
)

// Limits describes everything a tier grants: quotas for meterable features,
// the reset period those quotas cycle on, and capability flags.
type Limits struct {
	Tier        Tier              `json:"tier" yaml:"tier"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	PriceUSD    int               `json:"price_usd" yaml:"price_usd"`
	Quotas      map[Feature]Quota `json:"quotas" yaml:"quotas"`
	ResetPeriod Period            `json:"reset_period" yaml:"reset_period"`
	Flags       map[Flag]bool     `json:"flags" yaml:"flags"`
}

// Quota returns the quota for a meterable feature and whether the feature is
// known to this plan. A validated catalog guarantees ok for every feature in
// Features().
func (l Limits) Quota(f Feature) (Quota, bool) {
	q, ok := l.Quotas[f]
	return q, ok
}

// HasFlag reports the flag value and whether the flag is known to this plan.
func (l Limits) HasFlag(f Flag) (bool, bool) {
	v, ok := l.Flags[f]
	return v, ok
}
