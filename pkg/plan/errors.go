package plan

import "errors"

// Domain errors for plan catalog operations
var (
	ErrInvalidQuota     = errors.New("plan.errors.invalid_quota")
	ErrMissingQuota     = errors.New("plan.errors.missing_quota")
	ErrMissingFlag      = errors.New("plan.errors.missing_flag")
	ErrMissingFreeTier  = errors.New("plan.errors.missing_free_tier")
	ErrInvalidPeriod    = errors.New("plan.errors.invalid_reset_period")
	ErrFailedToLoadFile = errors.New("plan.errors.failed_to_load_file")
)
