package domain

import "errors"

var (
	// ErrStorage signals a failed call to the vector index backend after it was marked ready.
	ErrStorage = errors.New("storage error")
	// ErrEmptyText signals an add request without document text.
	ErrEmptyText = errors.New("text is required")
	// ErrInvalidLimit signals a non-positive search limit.
	ErrInvalidLimit = errors.New("limit must be positive")
)
