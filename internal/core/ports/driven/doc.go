// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding, generation, knowledge store,
// and job persistence.
package driven
