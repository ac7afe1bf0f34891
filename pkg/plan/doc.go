// Package plan defines the subscription plan catalog: tiers, per-feature
// quotas, reset periods, and capability flags.
//
// The catalog is the single source of truth for what each tier may do.
// Lookups are total: an unknown tier resolves to the free tier, and catalog
// validation guarantees every tier carries an entry for every meterable
// feature and every flag, so downstream code never deals with missing keys.
//
// Quotas are tagged values rather than raw integers. Bounded(0) means the
// feature is not available on the plan at all, which the metering engine
// treats differently from an exhausted quota; Unbounded means the feature is
// never denied.
//
// Basic usage:
//
//	catalog := plan.DefaultCatalog()
//	limits := catalog.LimitsFor(plan.TierCreator)
//	q := limits.Quotas[plan.FeatureScripts] // Bounded(100)
//
// Deploy-time overrides can be loaded from a YAML file via LoadYAMLCatalog.
package plan
