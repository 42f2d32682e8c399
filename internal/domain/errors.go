package domain

import "errors"

// Error taxonomy. Handlers match these with errors.Is and turn them into
// structured responses; anything else is a store-level failure that
// propagates to the outermost handler unmodified.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)
