package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	err := store.AddPassages(context.Background(), []domain.Passage{
		{ID: "act:0000", DocumentID: "act", Title: "First", Content: "first provision", Embedding: []float32{1, 0, 0}},
		{ID: "act:0001", DocumentID: "act", Title: "Second", Content: "second provision", Embedding: []float32{0, 1, 0}},
		{ID: "code:0000", DocumentID: "code", Title: "Third", Content: "third provision", Embedding: []float32{0.7, 0.7, 0}},
	})
	require.NoError(t, err)
	return store
}

func TestStore_Rank_OrdersByScore(t *testing.T) {
	store := seedStore(t)

	results, err := store.Rank(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "act:0000", results[0].PassageID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "act:0001", results[2].PassageID)
	assert.InDelta(t, 0.0, results[2].Score, 1e-6)
}

func TestStore_Rank_SelfMatchWins(t *testing.T) {
	store := seedStore(t)

	results, err := store.Rank(context.Background(), []float32{0.7, 0.7, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "code:0000", results[0].PassageID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestStore_Rank_NormalisesMagnitude(t *testing.T) {
	store := NewStore()
	// Same direction, wildly different magnitudes.
	err := store.AddPassages(context.Background(), []domain.Passage{
		{ID: "a", DocumentID: "d", Embedding: []float32{100, 0}},
		{ID: "b", DocumentID: "d", Embedding: []float32{0.001, 0}},
	})
	require.NoError(t, err)

	results, err := store.Rank(context.Background(), []float32{5, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Cosine similarity ignores magnitude, so both score 1 and the
	// tie-break keeps insertion order.
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 1.0, results[1].Score, 1e-6)
	assert.Equal(t, "a", results[0].PassageID)
	assert.Equal(t, "b", results[1].PassageID)
}

func TestStore_Rank_StableTieBreak(t *testing.T) {
	store := NewStore()
	err := store.AddPassages(context.Background(), []domain.Passage{
		{ID: "first", DocumentID: "d", Embedding: []float32{0, 1}},
		{ID: "second", DocumentID: "d", Embedding: []float32{0, 1}},
		{ID: "third", DocumentID: "d", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)

	results, err := store.Rank(context.Background(), []float32{0, 2}, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].PassageID)
	assert.Equal(t, "second", results[1].PassageID)
	assert.Equal(t, "third", results[2].PassageID)
}

func TestStore_Rank_EmptyCorpus(t *testing.T) {
	store := NewStore()
	results, err := store.Rank(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Rank_TruncatesToLimit(t *testing.T) {
	store := seedStore(t)
	results, err := store.Rank(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_Rank_DimensionMismatch(t *testing.T) {
	store := seedStore(t)
	_, err := store.Rank(context.Background(), []float32{1, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Rank_EmptyQuery(t *testing.T) {
	store := seedStore(t)
	_, err := store.Rank(context.Background(), nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_AddPassages_ReplacesByID(t *testing.T) {
	store := seedStore(t)

	err := store.AddPassages(context.Background(), []domain.Passage{
		{ID: "act:0000", DocumentID: "act", Content: "revised provision", Embedding: []float32{0, 0, 1}},
	})
	require.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	results, err := store.Rank(context.Background(), []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "act:0000", results[0].PassageID)
	assert.Equal(t, "revised provision", results[0].Content)
}

func TestStore_AddPassages_RejectsMissingEmbedding(t *testing.T) {
	store := NewStore()
	err := store.AddPassages(context.Background(), []domain.Passage{
		{ID: "a", DocumentID: "d"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_DeleteByDocument(t *testing.T) {
	store := seedStore(t)

	require.NoError(t, store.DeleteByDocument(context.Background(), "act"))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Rank(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "code:0000", results[0].PassageID)

	// Deleting an unknown document is a no-op.
	require.NoError(t, store.DeleteByDocument(context.Background(), "missing"))
}
