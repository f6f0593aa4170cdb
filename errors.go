package ragdex

import "github.com/kailas-cloud/ragdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrStorage      = domain.ErrStorage
	ErrEmptyText    = domain.ErrEmptyText
	ErrInvalidLimit = domain.ErrInvalidLimit
)
