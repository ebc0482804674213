package services

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
	"github.com/counsel-labs/lexora/internal/core/ports/driving"
	"github.com/counsel-labs/lexora/internal/logger"
)

// Ensure QueryProcessor implements the interface.
var _ driving.QueryService = (*QueryProcessor)(nil)

// QueryProcessor validates a raw question and obtains its embedding.
// It has no side effects besides the outbound embedding call and never
// retries; retry policy belongs to the provider client.
type QueryProcessor struct {
	embedder driven.EmbeddingService
}

// NewQueryProcessor creates a query processor.
func NewQueryProcessor(embedder driven.EmbeddingService) *QueryProcessor {
	return &QueryProcessor{embedder: embedder}
}

// Process trims and validates the question, then embeds it.
func (p *QueryProcessor) Process(ctx context.Context, input string) (*domain.QueryEmbedding, error) {
	query, err := domain.ValidateQuery(input)
	if err != nil {
		return nil, err
	}

	logger.Debug("Embedding query: %q", query)

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, providerErr(domain.ErrEmbeddingProvider, err)
	}

	logger.Debug("Query embedding: %d dimensions", len(vector))

	return &domain.QueryEmbedding{
		ModelID:       p.embedder.ModelName(),
		Vectors:       [][]float32{vector},
		OriginalQuery: query,
	}, nil
}
