package entitlement

import "errors"

var (
	// ErrUnknownFlag indicates a flag name the plan catalog does not define:
	// a caller/deploy mismatch that must be caught in testing, never masked
	// at runtime.
	ErrUnknownFlag = errors.New("entitlement.errors.unknown_flag")
)
