package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/types"
)

// UpdateRunStatus records the run's lifecycle status, creating the run row on
// first use.
func (db *DB) UpdateRunStatus(ctx context.Context, runID, status string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO runs (id, status)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET status = $2, updated_at = NOW()`,
		runID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	return nil
}

// SaveCheckpoint upserts the state snapshot for a completed stage.
func (db *DB) SaveCheckpoint(ctx context.Context, runID, stage string, state *types.RunState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_checkpoints (run_id, stage, state)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, stage) DO UPDATE
		 SET state = EXCLUDED.state, completed_at = NOW()`,
		runID, stage, stateJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", stage, err)
	}
	return nil
}

// LatestCheckpoint returns the most recently completed stage and its state
// snapshot, or ("", nil, nil) when the run has no checkpoints.
func (db *DB) LatestCheckpoint(ctx context.Context, runID string) (string, *types.RunState, error) {
	var stage string
	var stateJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT stage, state FROM run_checkpoints
		 WHERE run_id = $1
		 ORDER BY completed_at DESC
		 LIMIT 1`,
		runID,
	).Scan(&stage, &stateJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	var state types.RunState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return "", nil, fmt.Errorf("failed to parse checkpoint state: %w", err)
	}
	return stage, &state, nil
}

// SaveFailure preserves the partial state of a failed or deferred run. It is
// kept apart from the checkpoints so resumption never treats a failed stage
// as completed.
func (db *DB) SaveFailure(ctx context.Context, runID, stage string, state *types.RunState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_failures (run_id, stage, state)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id) DO UPDATE
		 SET stage = EXCLUDED.stage, state = EXCLUDED.state, recorded_at = NOW()`,
		runID, stage, stateJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save failure snapshot: %w", err)
	}
	return nil
}
