package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Query length bounds, applied after trimming whitespace.
const (
	MinQueryLength = 3
	MaxQueryLength = 1000
)

// QueryEmbedding is the embedded form of a validated question.
// It is created per request and discarded after use.
type QueryEmbedding struct {
	// ModelID identifies the embedding model that produced the vectors.
	ModelID string

	// Vectors holds one embedding per input text. Single-question
	// requests carry exactly one vector; batch embedding carries more.
	Vectors [][]float32

	// OriginalQuery is the trimmed question text.
	OriginalQuery string

	// Metadata contains provider-specific key-value pairs.
	Metadata map[string]any
}

// Vector returns the first embedding, which is the query vector for
// single-question requests. Returns nil when no vectors are present.
func (q *QueryEmbedding) Vector() []float32 {
	if len(q.Vectors) == 0 {
		return nil
	}
	return q.Vectors[0]
}

// ValidateQuery trims the input and checks the length bounds.
// Returns the trimmed query, or an error wrapping ErrValidation.
func ValidateQuery(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	n := utf8.RuneCountInString(trimmed)
	if n < MinQueryLength {
		return "", fmt.Errorf("%w: query must be at least %d characters, got %d",
			ErrValidation, MinQueryLength, n)
	}
	if n > MaxQueryLength {
		return "", fmt.Errorf("%w: query must be at most %d characters, got %d",
			ErrValidation, MaxQueryLength, n)
	}
	return trimmed, nil
}
