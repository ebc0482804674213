// Package memory provides an in-process knowledge store scoring
// passages with a dot product over unit-normalised vectors.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KnowledgeStore = (*Store)(nil)

// Store is an in-memory implementation of driven.KnowledgeStore for
// small corpora. Embeddings are unit-normalised at insertion and query
// time, so the dot product is a true cosine similarity regardless of
// whether the embedding provider normalises its output.
type Store struct {
	mu       sync.RWMutex
	passages []domain.Passage
	index    map[string]int // passage ID -> slot in passages
}

// NewStore creates an empty in-memory knowledge store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// AddPassages inserts or replaces passages by ID. Replaced passages
// keep their original insertion slot, preserving corpus order for the
// stable tie-break.
func (s *Store) AddPassages(_ context.Context, passages []domain.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range passages {
		if p.ID == "" {
			return fmt.Errorf("%w: passage ID is required", domain.ErrInvalidInput)
		}
		if len(p.Embedding) == 0 {
			return fmt.Errorf("%w: passage %s has no embedding", domain.ErrInvalidInput, p.ID)
		}

		p.Embedding = normalise(p.Embedding)

		if slot, ok := s.index[p.ID]; ok {
			s.passages[slot] = p
			continue
		}
		s.index[p.ID] = len(s.passages)
		s.passages = append(s.passages, p)
	}

	return nil
}

// Rank scores every passage against the query vector and returns
// matches ordered by descending score, ties broken by corpus order.
// An empty corpus returns an empty list.
func (s *Store) Rank(_ context.Context, query []float32, nResults int) ([]domain.SimilarityResult, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	q := normalise(query)

	results := make([]domain.SimilarityResult, 0, len(s.passages))
	for _, p := range s.passages {
		if len(p.Embedding) != len(q) {
			return nil, fmt.Errorf("%w: passage %s has %d dimensions, query has %d",
				domain.ErrInvalidInput, p.ID, len(p.Embedding), len(q))
		}
		results = append(results, domain.SimilarityResult{
			PassageID: p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Score:     dot(q, p.Embedding),
			Category:  p.Category,
			Source:    p.Source,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if nResults > 0 && len(results) > nResults {
		results = results[:nResults]
	}

	return results, nil
}

// Count returns the number of indexed passages.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

// DeleteByDocument removes every passage belonging to a document.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.passages[:0]
	for _, p := range s.passages {
		if p.DocumentID != documentID {
			kept = append(kept, p)
		}
	}
	s.passages = kept

	s.index = make(map[string]int, len(s.passages))
	for i, p := range s.passages {
		s.index[p.ID] = i
	}

	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// dot computes the dot product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalise returns a unit-length copy of the vector. Zero vectors are
// returned as-is; they score zero against everything.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
