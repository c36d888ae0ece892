package domain

import "errors"

var (
	// ErrInvalidInput marks a malformed or out-of-range request. It is
	// rejected before any pipeline work happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady means the catalog or vector index has not finished
	// loading. Distinct from a generic failure so the health check and
	// the request path can report 503 instead of 500.
	ErrNotReady = errors.New("system not ready")

	// ErrEmbedding means the embedding provider was unavailable or
	// returned a malformed vector.
	ErrEmbedding = errors.New("embedding failed")
)
