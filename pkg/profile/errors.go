package profile

import "errors"

var (
	ErrNotFound     = errors.New("profile.errors.not_found")
	ErrStoreFailure = errors.New("profile.errors.store_failure")
)
