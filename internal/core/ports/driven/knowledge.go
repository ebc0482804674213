package driven

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// KnowledgeStore holds passage embeddings and ranks query vectors
// against them. Two interchangeable strategies implement it: in-process
// dot-product scoring over an in-memory corpus, and delegation to a
// managed vector search service. The choice is made at construction
// time from configuration.
//
// The store is read concurrently by ranking calls and written by
// indexing jobs; ranking tolerates eventual consistency, so a
// just-enqueued document is not searchable until its job completes.
type KnowledgeStore interface {
	// AddPassages inserts or replaces passages by ID.
	AddPassages(ctx context.Context, passages []domain.Passage) error

	// Rank returns the best matches for the query vector, best first.
	// Order is descending by score with stable tie-break on insertion
	// order. An empty corpus returns an empty list, not an error.
	// nResults <= 0 means no limit.
	Rank(ctx context.Context, query []float32, nResults int) ([]domain.SimilarityResult, error)

	// Count returns the number of indexed passages.
	Count(ctx context.Context) (int, error)

	// DeleteByDocument removes every passage belonging to a document.
	// Used for idempotent re-ingestion: delete before insert.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
