package driven

import (
	"context"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// JobStore persists indexing jobs, backing the durable queue.
// Jobs survive process restarts; pending jobs found at startup are
// re-dispatched to workers.
type JobStore interface {
	// Save creates or updates a job by ID.
	Save(ctx context.Context, job *domain.IndexingJob) error

	// Get retrieves a job by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.IndexingJob, error)

	// List returns jobs in the given status ordered by enqueue time,
	// oldest first. limit <= 0 means no limit.
	List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.IndexingJob, error)

	// CountByStatus returns the number of jobs in each status.
	CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error)

	// Prune deletes the oldest terminal jobs (by completion time) in the
	// given status so that at most keep remain.
	Prune(ctx context.Context, status domain.JobStatus, keep int) error

	// Close releases resources.
	Close() error
}
