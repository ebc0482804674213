package domain

import "time"

// JobStatus is the lifecycle state of an indexing job.
type JobStatus string

// Job states. The only legal transitions are
// pending -> processing -> completed and pending -> processing -> failed.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IndexingJob tracks the asynchronous ingestion of one document.
// A job is created when a document is enqueued and mutated only by the
// worker processing it. Completed and failed jobs are retained up to a
// bounded history, then pruned oldest-first.
type IndexingJob struct {
	// ID is the unique job identifier.
	ID string

	// DocumentID is the document being ingested.
	DocumentID string

	// Document is the job payload: the full document to chunk and embed.
	Document Document

	// Status is the current lifecycle state.
	Status JobStatus

	// TotalChunks is the number of passages the document was split into.
	TotalChunks int

	// ProcessedChunks counts passages pushed to the knowledge store.
	// Monotonic within one job; batches apply in submission order.
	ProcessedChunks int

	// Error records the terminating failure for failed jobs.
	Error string

	// AttemptCount is the number of processing attempts made so far.
	AttemptCount int

	// EnqueuedAt is when the job was created.
	EnqueuedAt time.Time

	// StartedAt is when the first processing attempt began.
	StartedAt time.Time

	// CompletedAt is when the job reached a terminal state.
	CompletedAt time.Time
}

// Terminal reports whether the job has reached a final state.
func (j *IndexingJob) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// QueueHealth is the read-only operational surface of the indexing queue.
type QueueHealth struct {
	// Waiting is the number of pending jobs not yet picked up.
	Waiting int

	// Active is the number of jobs currently processing.
	Active int

	// Completed is the number of retained completed jobs.
	Completed int

	// Failed is the number of retained failed jobs.
	Failed int

	// Delayed is the number of jobs waiting out a retry backoff.
	Delayed int

	// Paused is true while the queue is not dispatching work.
	Paused bool

	// Healthy is derived: the queue is dispatching and the failed
	// backlog has not hit its retention cap.
	Healthy bool
}
