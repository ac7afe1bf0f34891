package metering

import "errors"

// Domain errors for metering operations
var (
	// ErrUnknownFeature indicates a feature name absent from the plan
	// catalog: a caller/deploy mismatch, fatal and not retriable.
	ErrUnknownFeature = errors.New("metering.errors.unknown_feature")

	// ErrStoreUnavailable wraps transient usage store failures. The engine
	// performs no retries; callers decide.
	ErrStoreUnavailable = errors.New("metering.errors.store_unavailable")
)
