// Package domain contains the core business types for Lexora: passages,
// query embeddings, similarity results, answers, and indexing jobs.
// It has no dependencies on adapters or external services.
package domain
