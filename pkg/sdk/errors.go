package relevance

import "github.com/giftlane/relevance/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation        = domain.ErrValidation
	ErrItemNotFound      = domain.ErrItemNotFound
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
	ErrExternalService   = domain.ErrExternalService
)
