package entitlement

import (
	"fmt"

	"github.com/lumigen/lumigen/pkg/plan"
)

// Resolver resolves plan capabilities against the catalog.
type Resolver struct {
	catalog *plan.Catalog
}

// NewResolver returns a resolver over the given catalog.
func NewResolver(catalog *plan.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// HasAccess reports whether the tier grants the capability flag. An unknown
// tier resolves to free limits; an unknown flag returns ErrUnknownFlag.
func (r *Resolver) HasAccess(tier plan.Tier, flag plan.Flag) (bool, error) {
	limits := r.catalog.LimitsFor(tier)
	v, ok := limits.HasFlag(flag)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	return v, nil
}
