package services

import (
	"fmt"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// DefaultChunkSize is the default passage size in bytes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between passages in bytes.
const DefaultChunkOverlap = 200

// Chunker splits document content into fixed-size passages with
// overlap. Sizes are measured in bytes, so a chunk edge can land
// inside a multi-byte rune; zero-overlap chunks still concatenate back
// to the exact original content. Passage IDs are derived from the
// document ID and chunk position, so re-ingesting the same document
// produces the same IDs.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in bytes.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between chunks in bytes.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks the document content into passages without embeddings.
// Empty content produces no passages.
func (c *Chunker) Split(doc domain.Document) []domain.Passage {
	if doc.Content == "" {
		return nil
	}

	content := doc.Content
	contentLen := len(content)

	estimated := (contentLen / (c.chunkSize - c.overlap)) + 1
	passages := make([]domain.Passage, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		passages = append(passages, domain.Passage{
			ID:         fmt.Sprintf("%s:%04d", doc.ID, position),
			DocumentID: doc.ID,
			Title:      doc.Title,
			Content:    content[start:end],
			Category:   doc.Category,
			Source:     doc.Source,
			Position:   position,
		})
		position++

		start += c.chunkSize - c.overlap

		// Avoid infinite loop for edge cases
		if c.chunkSize <= c.overlap {
			break
		}
	}

	return passages
}
