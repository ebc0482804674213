package domain

// Passage is a searchable unit of legal text with its embedding.
// Passages are immutable once indexed; re-ingesting a document replaces
// its passages wholesale, they are never partially edited.
type Passage struct {
	// ID is the unique identifier for the passage.
	ID string

	// DocumentID links to the source document this passage was chunked from.
	DocumentID string

	// Title is the human-readable title of the legal provision.
	Title string

	// Content is the verbatim legal text.
	Content string

	// Category is an optional classification (e.g. "criminal", "family").
	Category string

	// Source is an optional citation for where the text comes from.
	Source string

	// Position is the ordinal position within the source document.
	Position int

	// Embedding is the vector representation used for similarity ranking.
	Embedding []float32
}

// Document is a legal text submitted for ingestion, before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full legal text.
	Content string

	// Category is an optional classification.
	Category string

	// Source is an optional citation.
	Source string
}

// SimilarityResult is a single ranked match from the knowledge store.
// Results are ephemeral and produced fresh per ranking call; their order
// is part of the contract (descending score, stable on ties).
type SimilarityResult struct {
	// PassageID is the matched passage.
	PassageID string

	// Title is the passage title.
	Title string

	// Content is the passage's verbatim legal text.
	Content string

	// Score is the similarity between the query and the passage.
	Score float64

	// Category is the passage category, if any.
	Category string

	// Source is the passage source citation, if any.
	Source string
}

// Passage converts the result back into a Passage for citation.
// The embedding is not carried; cited passages are display-only.
func (r SimilarityResult) Passage() *Passage {
	return &Passage{
		ID:       r.PassageID,
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Source:   r.Source,
	}
}
