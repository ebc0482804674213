package services

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
	"github.com/counsel-labs/lexora/internal/logger"
)

// Ranker ranks a query embedding against the knowledge store and
// applies the optional relevance-threshold filter. The store behind it
// is a configuration-time choice: in-memory dot-product scoring or a
// delegated vector search service, both conforming to the same port.
type Ranker struct {
	store driven.KnowledgeStore

	// threshold removes results scoring below it before they reach the
	// composer. Zero disables the filter.
	threshold float64
}

// RankerOption configures the ranker.
type RankerOption func(*Ranker)

// WithRelevanceThreshold sets the minimum score a result must reach.
// The default is zero, which disables filtering.
func WithRelevanceThreshold(threshold float64) RankerOption {
	return func(r *Ranker) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// NewRanker creates a ranker over the given knowledge store.
func NewRanker(store driven.KnowledgeStore, opts ...RankerOption) *Ranker {
	r := &Ranker{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank returns ordered similarity results, best match first.
// An empty corpus or zero qualifying results returns an empty list,
// not an error. Store failures wrap domain.ErrKnowledgeStore.
func (r *Ranker) Rank(ctx context.Context, emb *domain.QueryEmbedding, nResults int) ([]domain.SimilarityResult, error) {
	vector := emb.Vector()
	if vector == nil {
		return nil, domain.ErrInvalidInput
	}

	results, err := r.store.Rank(ctx, vector, nResults)
	if err != nil {
		logger.Warn("Ranking failed: %v", err)
		return nil, providerErr(domain.ErrKnowledgeStore, err)
	}

	logger.Debug("Ranked %d candidates", len(results))

	if r.threshold > 0 {
		filtered := results[:0]
		for _, res := range results {
			if res.Score >= r.threshold {
				filtered = append(filtered, res)
			}
		}
		if len(filtered) < len(results) {
			logger.Debug("Relevance threshold %.3f dropped %d results",
				r.threshold, len(results)-len(filtered))
		}
		results = filtered
	}

	return results, nil
}
