package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/types"
)

// CreateApplication records an application. Creation is idempotent on
// (user_id, job_id): when a record already exists it is returned unchanged,
// so retried tracking stages never duplicate applications.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	historyJSON, err := json.Marshal(app.StatusHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status history: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, match_score, status, status_history, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		app.ID, app.UserID, app.JobID, app.MatchScore, app.Status, historyJSON, app.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return app, nil
	}

	// Lost the insert race or retried after a crash: the existing record is
	// authoritative.
	existing, err := db.GetApplicationByUserJob(ctx, app.UserID, app.JobID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("application for user %s job %s vanished after conflict", app.UserID, app.JobID)
	}
	return existing, nil
}

// GetApplication retrieves an application by ID, nil when absent.
func (db *DB) GetApplication(ctx context.Context, applicationID string) (*types.Application, error) {
	return db.getApplication(ctx,
		`SELECT id, user_id, job_id, match_score, status, status_history, created_at
		 FROM applications WHERE id = $1`,
		applicationID)
}

// GetApplicationByUserJob retrieves the application for a (user, job) pair,
// nil when absent.
func (db *DB) GetApplicationByUserJob(ctx context.Context, userID, jobID string) (*types.Application, error) {
	return db.getApplication(ctx,
		`SELECT id, user_id, job_id, match_score, status, status_history, created_at
		 FROM applications WHERE user_id = $1 AND job_id = $2`,
		userID, jobID)
}

func (db *DB) getApplication(ctx context.Context, query string, args ...any) (*types.Application, error) {
	var app types.Application
	var historyJSON []byte

	err := db.pool.QueryRow(ctx, query, args...).Scan(
		&app.ID, &app.UserID, &app.JobID, &app.MatchScore, &app.Status, &historyJSON, &app.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if historyJSON != nil {
		_ = json.Unmarshal(historyJSON, &app.StatusHistory)
	}
	return &app, nil
}

// UpdateApplicationStatus transitions an application to a new status,
// appending to its history. Illegal transitions are rejected without writing.
func (db *DB) UpdateApplicationStatus(ctx context.Context, applicationID string, status types.ApplicationStatus, at time.Time) error {
	app, err := db.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("application not found: %s", applicationID)
	}

	if err := app.Transition(status, at); err != nil {
		return err
	}

	historyJSON, err := json.Marshal(app.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal status history: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE applications
		 SET status = $1, status_history = $2, updated_at = NOW()
		 WHERE id = $3`,
		app.Status, historyJSON, applicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// ListApplications retrieves a user's applications, newest first.
func (db *DB) ListApplications(ctx context.Context, userID string, limit int) ([]types.Application, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, match_score, status, status_history, created_at
		 FROM applications WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		var app types.Application
		var historyJSON []byte
		if err := rows.Scan(&app.ID, &app.UserID, &app.JobID, &app.MatchScore,
			&app.Status, &historyJSON, &app.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if historyJSON != nil {
			_ = json.Unmarshal(historyJSON, &app.StatusHistory)
		}
		apps = append(apps, app)
	}
	return apps, nil
}
