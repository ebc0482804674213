package driving

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// QueryService validates a raw question and obtains its embedding.
type QueryService interface {
	// Process trims and validates the input (3-1000 characters after
	// trimming) and delegates to the embedding capability. Validation
	// failures wrap domain.ErrValidation; provider failures wrap
	// domain.ErrEmbeddingProvider or domain.ErrProviderTimeout and are
	// propagated unmodified - no local retry.
	Process(ctx context.Context, input string) (*domain.QueryEmbedding, error)
}

// AnswerService turns a query embedding into a final cited answer.
type AnswerService interface {
	// Compose ranks the query against the corpus and composes a cited
	// answer. An empty ranked list short-circuits to the canned
	// no-relevant-law answer without any generative model call.
	Compose(ctx context.Context, emb *domain.QueryEmbedding, query string) (*domain.Answer, error)
}
