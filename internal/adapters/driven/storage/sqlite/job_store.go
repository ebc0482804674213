package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// Save creates or updates a job by ID.
func (s *jobStore) Save(ctx context.Context, job *domain.IndexingJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}

	payload, err := json.Marshal(job.Document)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO indexing_jobs
			(id, document_id, payload, status, total_chunks, processed_chunks,
			 error, attempt_count, enqueued_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			payload = excluded.payload,
			status = excluded.status,
			total_chunks = excluded.total_chunks,
			processed_chunks = excluded.processed_chunks,
			error = excluded.error,
			attempt_count = excluded.attempt_count,
			enqueued_at = excluded.enqueued_at,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, job.ID, job.DocumentID, string(payload), string(job.Status),
		job.TotalChunks, job.ProcessedChunks,
		nullString(job.Error), job.AttemptCount,
		job.EnqueuedAt.UTC().Format(time.RFC3339Nano),
		nullTime(job.StartedAt), nullTime(job.CompletedAt))

	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *jobStore) Get(ctx context.Context, id string) (*domain.IndexingJob, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, payload, status, total_chunks, processed_chunks,
		       error, attempt_count, enqueued_at, started_at, completed_at
		FROM indexing_jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// List returns jobs in the given status, oldest enqueue first.
func (s *jobStore) List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.IndexingJob, error) {
	query := `
		SELECT id, document_id, payload, status, total_chunks, processed_chunks,
		       error, attempt_count, enqueued_at, started_at, completed_at
		FROM indexing_jobs WHERE status = ?
		ORDER BY enqueued_at ASC`
	args := []any{string(status)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IndexingJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, nil
}

// CountByStatus returns the number of jobs in each status.
func (s *jobStore) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM indexing_jobs GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[domain.JobStatus(status)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}

	return counts, nil
}

// Prune deletes the oldest jobs (by completion time) in the given
// status so that at most keep remain.
func (s *jobStore) Prune(ctx context.Context, status domain.JobStatus, keep int) error {
	if keep < 0 {
		keep = 0
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM indexing_jobs
		WHERE status = ? AND id NOT IN (
			SELECT id FROM indexing_jobs WHERE status = ?
			ORDER BY completed_at DESC LIMIT ?
		)
	`, string(status), string(status), keep)

	if err != nil {
		return fmt.Errorf("pruning jobs: %w", err)
	}
	return nil
}

// Close is a no-op; the parent store owns the connection.
func (s *jobStore) Close() error {
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.IndexingJob, error) {
	var job domain.IndexingJob
	var status, payload, enqueuedAt string
	var errMsg, startedAt, completedAt sql.NullString

	if err := row.Scan(&job.ID, &job.DocumentID, &payload, &status,
		&job.TotalChunks, &job.ProcessedChunks,
		&errMsg, &job.AttemptCount, &enqueuedAt, &startedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &job.Document); err != nil {
		return nil, fmt.Errorf("unmarshalling payload: %w", err)
	}

	job.Status = domain.JobStatus(status)
	job.Error = errMsg.String

	var err error
	if job.EnqueuedAt, err = time.Parse(time.RFC3339Nano, enqueuedAt); err != nil {
		return nil, fmt.Errorf("parsing enqueued_at: %w", err)
	}
	if startedAt.Valid {
		if job.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt.String); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
	}
	if completedAt.Valid {
		if job.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt.String); err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
	}

	return &job, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}
