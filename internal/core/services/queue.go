package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
	"github.com/counsel-labs/lexora/internal/core/ports/driving"
	"github.com/counsel-labs/lexora/internal/logger"
)

// Ensure IndexingQueue implements the interface.
var _ driving.IndexingQueue = (*IndexingQueue)(nil)

// Queue defaults. The reference deployment runs five concurrent jobs,
// three attempts per job with a 2s doubling backoff, 20-chunk batches,
// and retains the last 100 completed / 200 failed jobs.
const (
	DefaultConcurrency        = 5
	DefaultMaxAttempts        = 3
	DefaultRetryBackoff       = 2 * time.Second
	DefaultBatchSize          = 20
	DefaultCompletedRetention = 100
	DefaultFailedRetention    = 200
	defaultPollInterval       = 250 * time.Millisecond
)

// errDraining signals that shutdown was requested between chunk
// batches. The in-flight batch has already finished; the job goes back
// to pending for the next run.
var errDraining = errors.New("queue draining")

// QueueConfig configures the indexing queue.
type QueueConfig struct {
	// Concurrency is the maximum number of jobs processed at once.
	Concurrency int

	// MaxAttempts is how many times a job is tried before failing.
	MaxAttempts int

	// RetryBackoff is the delay before the second attempt; it doubles
	// for each further attempt.
	RetryBackoff time.Duration

	// BatchSize is how many chunk embeddings are pushed to the
	// knowledge store per call.
	BatchSize int

	// CompletedRetention bounds how many completed jobs are kept.
	CompletedRetention int

	// FailedRetention bounds how many failed jobs are kept.
	FailedRetention int

	// PollInterval is how often the dispatcher checks for pending jobs.
	PollInterval time.Duration
}

func (c *QueueConfig) applyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.CompletedRetention <= 0 {
		c.CompletedRetention = DefaultCompletedRetention
	}
	if c.FailedRetention <= 0 {
		c.FailedRetention = DefaultFailedRetention
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
}

// IndexingQueue ingests documents asynchronously: chunk, embed in
// batches, push to the knowledge store. Jobs are durable; pending work
// survives restarts and is re-dispatched when the queue starts.
//
// The queue is the one component that absorbs terminal failures into
// job state instead of returning them to a caller - ingestion has no
// synchronous caller waiting.
type IndexingQueue struct {
	jobs      driven.JobStore
	knowledge driven.KnowledgeStore
	embedder  driven.EmbeddingService
	chunker   *Chunker
	cfg       QueueConfig

	jobCh    chan domain.IndexingJob
	notifyCh chan struct{}

	mu       sync.Mutex
	running  bool
	paused   bool
	delayed  int
	inFlight map[string]struct{}
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewIndexingQueue creates an indexing queue.
func NewIndexingQueue(
	jobs driven.JobStore,
	knowledge driven.KnowledgeStore,
	embedder driven.EmbeddingService,
	chunker *Chunker,
	cfg QueueConfig,
) *IndexingQueue {
	cfg.applyDefaults()
	return &IndexingQueue{
		jobs:      jobs,
		knowledge: knowledge,
		embedder:  embedder,
		chunker:   chunker,
		cfg:       cfg,
		notifyCh:  make(chan struct{}, 1),
		inFlight:  make(map[string]struct{}),
	}
}

// Enqueue creates a pending job for the document and returns its ID.
// When workers are saturated the job waits in pending; it is never
// dropped or executed inline.
func (q *IndexingQueue) Enqueue(ctx context.Context, doc domain.Document) (string, error) {
	if doc.ID == "" {
		return "", fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	if doc.Content == "" {
		return "", fmt.Errorf("%w: document content is required", domain.ErrInvalidInput)
	}

	job := &domain.IndexingJob{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Document:   doc,
		Status:     domain.JobPending,
		EnqueuedAt: time.Now().UTC(),
	}

	if err := q.jobs.Save(ctx, job); err != nil {
		return "", fmt.Errorf("save job: %w", err)
	}

	logger.Info("Enqueued document %s as job %s", doc.ID, job.ID)

	// Nudge the dispatcher so new work starts without waiting a tick.
	select {
	case q.notifyCh <- struct{}{}:
	default:
	}

	return job.ID, nil
}

// Start launches the worker pool and dispatch loop. It blocks until
// Stop is called or the context is cancelled.
func (q *IndexingQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return nil // Already running
	}
	q.running = true
	q.stopCh = make(chan struct{})
	q.jobCh = make(chan domain.IndexingJob)
	q.mu.Unlock()

	// Jobs left in processing by a previous run go back to pending.
	if err := q.recoverInterrupted(ctx); err != nil {
		logger.Warn("Failed to recover interrupted jobs: %v", err)
	}

	for i := 0; i < q.cfg.Concurrency; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}

	return q.dispatch(ctx)
}

// Stop gracefully shuts the queue down. Workers finish their in-flight
// chunk batch before exiting; interrupted jobs return to pending.
func (q *IndexingQueue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.stopCh)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Pause stops dispatching new jobs. In-flight jobs finish.
func (q *IndexingQueue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paused = true
}

// Resume restarts dispatching after a pause.
func (q *IndexingQueue) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paused = false

	select {
	case q.notifyCh <- struct{}{}:
	default:
	}
}

// Health reports queue counts and the derived healthy flag. The queue
// is healthy while it is dispatching and the failed backlog has not hit
// its retention cap (at the cap, older failures are being evicted
// before an operator can inspect them).
func (q *IndexingQueue) Health(ctx context.Context) (domain.QueueHealth, error) {
	counts, err := q.jobs.CountByStatus(ctx)
	if err != nil {
		return domain.QueueHealth{}, fmt.Errorf("count jobs: %w", err)
	}

	q.mu.Lock()
	paused := q.paused
	delayed := q.delayed
	q.mu.Unlock()

	active := counts[domain.JobProcessing] - delayed
	if active < 0 {
		active = 0
	}

	h := domain.QueueHealth{
		Waiting:   counts[domain.JobPending],
		Active:    active,
		Completed: counts[domain.JobCompleted],
		Failed:    counts[domain.JobFailed],
		Delayed:   delayed,
		Paused:    paused,
	}
	h.Healthy = !paused && h.Failed < q.cfg.FailedRetention
	return h, nil
}

// recoverInterrupted resets jobs stuck in processing back to pending.
func (q *IndexingQueue) recoverInterrupted(ctx context.Context) error {
	stuck, err := q.jobs.List(ctx, domain.JobProcessing, 0)
	if err != nil {
		return err
	}
	for i := range stuck {
		job := stuck[i]
		job.Status = domain.JobPending
		job.ProcessedChunks = 0
		if err := q.jobs.Save(ctx, &job); err != nil {
			return err
		}
		logger.Info("Recovered interrupted job %s", job.ID)
	}
	return nil
}

// dispatch is the main loop feeding pending jobs to workers.
func (q *IndexingQueue) dispatch(ctx context.Context) error {
	q.dispatchPending(ctx)

	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.stopCh:
			return nil
		case <-q.notifyCh:
			q.dispatchPending(ctx)
		case <-ticker.C:
			q.dispatchPending(ctx)
		}
	}
}

// dispatchPending hands pending jobs to idle workers. When all workers
// are busy the jobs stay pending until the next tick - that is the
// backpressure model.
func (q *IndexingQueue) dispatchPending(ctx context.Context) {
	q.mu.Lock()
	if q.paused {
		q.mu.Unlock()
		return
	}
	q.mu.Unlock()

	pending, err := q.jobs.List(ctx, domain.JobPending, 0)
	if err != nil {
		logger.Warn("Failed to list pending jobs: %v", err)
		return
	}

	for i := range pending {
		job := pending[i]

		q.mu.Lock()
		_, dispatched := q.inFlight[job.ID]
		if !dispatched {
			q.inFlight[job.ID] = struct{}{}
		}
		q.mu.Unlock()
		if dispatched {
			continue
		}

		select {
		case q.jobCh <- job:
		case <-q.stopCh:
			q.release(job.ID)
			return
		default:
			// Workers saturated; the job stays pending.
			q.release(job.ID)
			return
		}
	}
}

func (q *IndexingQueue) release(jobID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, jobID)
}

// worker processes dispatched jobs until shutdown.
func (q *IndexingQueue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case job := <-q.jobCh:
			q.runJob(ctx, &job)
			q.release(job.ID)
		}
	}
}

// runJob drives one job through its attempts to a terminal state.
// Terminal failures are absorbed into job state, never returned.
func (q *IndexingQueue) runJob(ctx context.Context, job *domain.IndexingJob) {
	defer logger.Timing("indexing job "+job.ID, time.Now())

	passages := q.chunker.Split(job.Document)

	job.Status = domain.JobProcessing
	job.TotalChunks = len(passages)
	job.ProcessedChunks = 0
	job.Error = ""
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	q.saveJob(ctx, job)

	for {
		job.AttemptCount++
		err := q.processAttempt(ctx, job, passages)

		if err == nil {
			job.Status = domain.JobCompleted
			job.CompletedAt = time.Now().UTC()
			job.Error = ""
			q.saveJob(ctx, job)
			q.prune(ctx, domain.JobCompleted, q.cfg.CompletedRetention)
			logger.Info("Job %s completed: %d/%d chunks",
				job.ID, job.ProcessedChunks, job.TotalChunks)
			return
		}

		if errors.Is(err, errDraining) || ctx.Err() != nil {
			// Shutdown mid-job: the attempt doesn't count.
			job.AttemptCount--
			job.Status = domain.JobPending
			job.ProcessedChunks = 0
			q.saveJob(context.WithoutCancel(ctx), job)
			return
		}

		logger.Warn("Job %s attempt %d/%d failed: %v",
			job.ID, job.AttemptCount, q.cfg.MaxAttempts, err)

		if job.AttemptCount >= q.cfg.MaxAttempts {
			job.Status = domain.JobFailed
			job.Error = err.Error()
			job.CompletedAt = time.Now().UTC()
			q.saveJob(ctx, job)
			q.prune(ctx, domain.JobFailed, q.cfg.FailedRetention)
			logger.Warn("Job %s failed permanently after %d attempts", job.ID, job.AttemptCount)
			return
		}

		// Exponential backoff: RetryBackoff doubles per attempt.
		delay := q.cfg.RetryBackoff << (job.AttemptCount - 1)
		logger.Debug("Job %s retrying in %s", job.ID, delay)
		if !q.sleep(ctx, delay) {
			job.Status = domain.JobPending
			job.ProcessedChunks = 0
			q.saveJob(context.WithoutCancel(ctx), job)
			return
		}
	}
}

// processAttempt runs one full ingestion pass for a job. Existing
// passages for the document are deleted first so re-ingestion is
// idempotent, then chunk batches are embedded and pushed strictly in
// order. Shutdown is only honoured between batches.
func (q *IndexingQueue) processAttempt(ctx context.Context, job *domain.IndexingJob, passages []domain.Passage) error {
	if err := q.knowledge.DeleteByDocument(ctx, job.DocumentID); err != nil {
		return fmt.Errorf("delete existing passages: %w", err)
	}

	job.ProcessedChunks = 0
	q.saveJob(ctx, job)

	for start := 0; start < len(passages); start += q.cfg.BatchSize {
		end := start + q.cfg.BatchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Content
		}

		vectors, err := q.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}

		if err := q.knowledge.AddPassages(ctx, batch); err != nil {
			return fmt.Errorf("add passages: %w", err)
		}

		job.ProcessedChunks = end
		q.saveJob(ctx, job)

		// Drain, not abort: finish the batch, then honour shutdown.
		if end < len(passages) {
			select {
			case <-q.stopCh:
				return errDraining
			default:
			}
		}
	}

	return nil
}

// sleep waits for the backoff delay, counting the job as delayed.
// Returns false if shutdown was requested during the wait.
func (q *IndexingQueue) sleep(ctx context.Context, d time.Duration) bool {
	q.mu.Lock()
	q.delayed++
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.delayed--
		q.mu.Unlock()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-q.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (q *IndexingQueue) saveJob(ctx context.Context, job *domain.IndexingJob) {
	if err := q.jobs.Save(ctx, job); err != nil {
		logger.Warn("Failed to save job %s: %v", job.ID, err)
	}
}

func (q *IndexingQueue) prune(ctx context.Context, status domain.JobStatus, keep int) {
	if err := q.jobs.Prune(ctx, status, keep); err != nil {
		logger.Warn("Failed to prune %s jobs: %v", status, err)
	}
}
