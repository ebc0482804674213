package services

import (
	"context"
	"errors"
	"sync"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

var errTransient = errors.New("embedding service unavailable")

// mockEmbedder is a hand-rolled embedding service for tests.
type mockEmbedder struct {
	mu     sync.Mutex
	vector []float32
	err    error

	// failBatches makes the first N EmbedBatch calls fail, then succeed.
	failBatches int
	batchCalls  int
	embedCalls  int
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.batchCalls <= m.failBatches {
		return nil, errTransient
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int                { return len(m.vector) }
func (m *mockEmbedder) ModelName() string              { return "mock-embedding" }
func (m *mockEmbedder) Ping(ctx context.Context) error { return nil }
func (m *mockEmbedder) Close() error                   { return nil }

// mockLLM is a hand-rolled generative model for tests.
type mockLLM struct {
	mu           sync.Mutex
	reply        string
	err          error
	calls        int
	lastMessages []driven.ChatMessage
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string              { return "mock-llm" }
func (m *mockLLM) Ping(ctx context.Context) error { return nil }
func (m *mockLLM) Close() error                   { return nil }

// mockKnowledgeStore is a hand-rolled knowledge store for tests. Rank
// returns canned results; writes are recorded for inspection.
type mockKnowledgeStore struct {
	mu       sync.Mutex
	results  []domain.SimilarityResult
	rankErr  error
	addErr   error
	passages map[string]domain.Passage
	deletes  []string
}

var _ driven.KnowledgeStore = (*mockKnowledgeStore)(nil)

func (m *mockKnowledgeStore) AddPassages(ctx context.Context, passages []domain.Passage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	if m.passages == nil {
		m.passages = make(map[string]domain.Passage)
	}
	for _, p := range passages {
		m.passages[p.ID] = p
	}
	return nil
}

func (m *mockKnowledgeStore) Rank(ctx context.Context, query []float32, nResults int) ([]domain.SimilarityResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rankErr != nil {
		return nil, m.rankErr
	}
	results := m.results
	if nResults > 0 && len(results) > nResults {
		results = results[:nResults]
	}
	return append([]domain.SimilarityResult(nil), results...), nil
}

func (m *mockKnowledgeStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.passages), nil
}

func (m *mockKnowledgeStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, documentID)
	for id, p := range m.passages {
		if p.DocumentID == documentID {
			delete(m.passages, id)
		}
	}
	return nil
}

func (m *mockKnowledgeStore) Close() error { return nil }

func (m *mockKnowledgeStore) passageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.passages)
}

func (m *mockKnowledgeStore) deleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
