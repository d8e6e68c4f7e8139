package domain

import "errors"

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "relevance:"

var (
	// ErrValidation signals malformed search options. Surfaced before any backend call.
	ErrValidation = errors.New("validation failed")
	// ErrExternalService signals an embedding provider failure. Fatal for the search:
	// without a query vector the semantic leg cannot run.
	ErrExternalService = errors.New("external service error")
	// ErrItemNotFound signals a missing catalog item.
	ErrItemNotFound = errors.New("item not found")
	// ErrVectorDimMismatch signals an embedding dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
