// Package profile stores per-user account data: the billing tier that gates
// generation quotas and feature flags, plus notification preferences.
//
// Profiles are created lazily on first read so a freshly signed-up user is
// always a valid free-tier user without an explicit provisioning step.
package profile
