package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

func TestChunker_Split(t *testing.T) {
	chunker := NewChunker(WithChunkSize(100), WithChunkOverlap(20))
	doc := domain.Document{
		ID:       "act-1",
		Title:    "Test Act",
		Content:  strings.Repeat("a", 250),
		Category: "criminal",
		Source:   "Test Act, Cap 1",
	}

	passages := chunker.Split(doc)
	// Starts at 0, 80, 160, 240.
	require.Len(t, passages, 4)

	assert.Equal(t, "act-1:0000", passages[0].ID)
	assert.Equal(t, "act-1:0001", passages[1].ID)
	assert.Equal(t, "act-1:0003", passages[3].ID)

	assert.Len(t, passages[0].Content, 100)
	assert.Len(t, passages[3].Content, 10)

	for i, p := range passages {
		assert.Equal(t, "act-1", p.DocumentID)
		assert.Equal(t, "Test Act", p.Title)
		assert.Equal(t, "criminal", p.Category)
		assert.Equal(t, "Test Act, Cap 1", p.Source)
		assert.Equal(t, i, p.Position)
		assert.Nil(t, p.Embedding)
	}
}

func TestChunker_Split_Overlap(t *testing.T) {
	chunker := NewChunker(WithChunkSize(10), WithChunkOverlap(4))
	doc := domain.Document{ID: "d", Content: "abcdefghijklmnopqrst"}

	passages := chunker.Split(doc)
	require.GreaterOrEqual(t, len(passages), 2)

	// The second chunk starts 6 characters in, repeating the last 4.
	assert.Equal(t, "abcdefghij", passages[0].Content)
	assert.Equal(t, "ghijklmnop", passages[1].Content)
}

func TestChunker_Split_ShortDocument(t *testing.T) {
	chunker := NewChunker()
	doc := domain.Document{ID: "d", Content: "short provision"}

	passages := chunker.Split(doc)
	require.Len(t, passages, 1)
	assert.Equal(t, "short provision", passages[0].Content)
	assert.Equal(t, "d:0000", passages[0].ID)
}

func TestChunker_Split_EmptyDocument(t *testing.T) {
	chunker := NewChunker()
	assert.Empty(t, chunker.Split(domain.Document{ID: "d"}))
}

func TestChunker_Split_DeterministicIDs(t *testing.T) {
	chunker := NewChunker(WithChunkSize(50), WithChunkOverlap(10))
	doc := domain.Document{ID: "act-2", Content: strings.Repeat("b", 200)}

	first := chunker.Split(doc)
	second := chunker.Split(doc)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestChunker_Split_ByteSized(t *testing.T) {
	chunker := NewChunker(WithChunkSize(10), WithChunkOverlap(0))
	// Multi-byte runes; chunk edges are byte offsets, and with zero
	// overlap the chunks must reassemble into the original content.
	content := strings.Repeat("küñô", 20)
	doc := domain.Document{ID: "d", Content: content}

	passages := chunker.Split(doc)
	require.NotEmpty(t, passages)

	var b strings.Builder
	for _, p := range passages {
		assert.LessOrEqual(t, len(p.Content), 10)
		b.WriteString(p.Content)
	}
	assert.Equal(t, content, b.String())
}

func TestNewChunker_ClampsExcessiveOverlap(t *testing.T) {
	chunker := NewChunker(WithChunkSize(100), WithChunkOverlap(100))
	doc := domain.Document{ID: "d", Content: strings.Repeat("c", 300)}

	// Must terminate and make forward progress.
	passages := chunker.Split(doc)
	assert.NotEmpty(t, passages)
}
