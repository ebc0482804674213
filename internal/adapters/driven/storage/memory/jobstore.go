// Package memory provides in-memory storage adapters for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.IndexingJob
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]domain.IndexingJob),
	}
}

// Save creates or updates a job by ID.
func (s *JobStore) Save(_ context.Context, job *domain.IndexingJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// Get retrieves a job by ID.
func (s *JobStore) Get(_ context.Context, id string) (*domain.IndexingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// List returns jobs in the given status, oldest enqueue first.
func (s *JobStore) List(_ context.Context, status domain.JobStatus, limit int) ([]domain.IndexingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []domain.IndexingJob
	for _, job := range s.jobs {
		if job.Status == status {
			jobs = append(jobs, job)
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].EnqueuedAt.Before(jobs[j].EnqueuedAt)
	})

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}

	return jobs, nil
}

// CountByStatus returns the number of jobs in each status.
func (s *JobStore) CountByStatus(_ context.Context) (map[domain.JobStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.JobStatus]int)
	for _, job := range s.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

// Prune deletes the oldest jobs (by completion time) in the given
// status so that at most keep remain.
func (s *JobStore) Prune(_ context.Context, status domain.JobStatus, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var terminal []domain.IndexingJob
	for _, job := range s.jobs {
		if job.Status == status {
			terminal = append(terminal, job)
		}
	}
	if len(terminal) <= keep {
		return nil
	}

	// Newest completions first; everything past keep is pruned.
	sort.Slice(terminal, func(i, j int) bool {
		return terminal[i].CompletedAt.After(terminal[j].CompletedAt)
	})
	for _, job := range terminal[keep:] {
		delete(s.jobs, job.ID)
	}

	return nil
}

// Close releases resources.
func (s *JobStore) Close() error {
	return nil
}
