// Package account exposes the caller's own profile: current tier and the
// niche-digest opt-in. Identity comes from the gateway headers; there is no
// self-service tier change here, the billing webhook owns that.
package account
