package plan

import "strings"

// Tier is a named subscription level.
type Tier string

const (
	TierFree    Tier = "free"
	TierCreator Tier = "creator"
	TierPro     Tier = "pro"
)

// Tiers lists all known tiers in ascending order of capability.
func Tiers() []Tier {
	return []Tier{TierFree, TierCreator, TierPro}
}

// ParseTier normalizes a raw tier string. Unknown or empty values resolve to
// TierFree so that a stale or corrupted profile row can never grant paid
// capabilities or crash a request.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierCreator:
		return TierCreator
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}
