// Package services contains the core application logic: query
// processing, similarity ranking, answer composition, chunking, and the
// asynchronous indexing queue. Services depend only on domain types and
// driven ports; adapters are injected at construction.
package services
