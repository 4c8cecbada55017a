package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/types"
)

// SaveDocuments stores the generated documents for a run's job. A retried
// writer stage replaces its own output.
func (db *DB) SaveDocuments(ctx context.Context, runID, jobID string, docs types.Documents) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO documents (run_id, job_id, resume, cover_letter)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, job_id) DO UPDATE
		 SET resume = EXCLUDED.resume, cover_letter = EXCLUDED.cover_letter, created_at = NOW()`,
		runID, jobID, docs.Resume, docs.CoverLetter,
	)
	if err != nil {
		return fmt.Errorf("failed to save documents for job %s: %w", jobID, err)
	}
	return nil
}

// GetDocuments retrieves the documents for a run's job, nil when absent.
func (db *DB) GetDocuments(ctx context.Context, runID, jobID string) (*types.Documents, error) {
	var docs types.Documents
	err := db.pool.QueryRow(ctx,
		`SELECT resume, cover_letter FROM documents WHERE run_id = $1 AND job_id = $2`,
		runID, jobID,
	).Scan(&docs.Resume, &docs.CoverLetter)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	return &docs, nil
}

// DeleteRunDocuments discards every document generated for a run. Used when
// the decision stage rejects the match after documents were drafted.
func (db *DB) DeleteRunDocuments(ctx context.Context, runID string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete documents for run %s: %w", runID, err)
	}
	return nil
}
