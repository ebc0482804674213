package driving

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// IndexingQueue ingests documents into the knowledge store
// asynchronously, decoupled from query-time traffic.
type IndexingQueue interface {
	// Enqueue creates a pending indexing job for the document and
	// returns its job ID. The document is not searchable until the job
	// completes.
	Enqueue(ctx context.Context, doc domain.Document) (string, error)

	// Health reports queue counts and the derived healthy flag.
	Health(ctx context.Context) (domain.QueueHealth, error)

	// Start launches the worker pool and blocks until Stop is called
	// or the context is cancelled.
	Start(ctx context.Context) error

	// Stop drains in-flight work and shuts the worker pool down.
	// In-flight chunk batches finish; they are never aborted.
	Stop() error

	// Pause stops dispatching new jobs; in-flight jobs finish.
	Pause()

	// Resume restarts dispatching after a pause.
	Resume()
}
