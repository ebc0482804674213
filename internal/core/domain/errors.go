package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrValidation indicates malformed or out-of-range query text.
	ErrValidation = errors.New("query validation failed")

	// ErrEmbeddingProvider indicates the embedding provider call failed.
	// The upstream failure is wrapped and propagated unmodified.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrKnowledgeStore indicates the knowledge store ranking or write failed.
	ErrKnowledgeStore = errors.New("knowledge store failure")

	// ErrGenerationProvider indicates the generative model call failed.
	ErrGenerationProvider = errors.New("generation provider failure")

	// ErrProviderTimeout indicates an external call exceeded its deadline.
	// Kept distinct from other provider failures so callers can tell
	// latency problems from hard errors.
	ErrProviderTimeout = errors.New("provider timed out")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
