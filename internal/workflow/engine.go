// Package workflow provides the state machine that drives a job application
// run through its agent steps, checkpointing the shared run state after every
// completed stage so crashed or deferred runs resume instead of restarting.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/agents"
	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// CheckpointStore durably snapshots run state per completed stage.
type CheckpointStore interface {
	// SaveCheckpoint upserts the state snapshot for a completed stage.
	SaveCheckpoint(ctx context.Context, runID, stage string, state *types.RunState) error
	// LatestCheckpoint returns the most recent completed stage and its
	// snapshot, or ("", nil, nil) when the run has no checkpoints.
	LatestCheckpoint(ctx context.Context, runID string) (string, *types.RunState, error)
	// SaveFailure preserves the partial state of a failed run without
	// registering a completed-stage checkpoint.
	SaveFailure(ctx context.Context, runID, stage string, state *types.RunState) error
	// UpdateRunStatus records the run's lifecycle status.
	UpdateRunStatus(ctx context.Context, runID, status string) error
}

// DocumentStore discards speculatively persisted documents when a run is
// rejected at the decision stage.
type DocumentStore interface {
	DeleteRunDocuments(ctx context.Context, runID string) error
}

// Config bounds stage execution.
type Config struct {
	// MaxRetries is the number of retries (beyond the first attempt) for a
	// stage that fails transiently.
	MaxRetries uint
	// StageTimeout bounds a single attempt of one stage, covering its
	// external calls.
	StageTimeout time.Duration
	// RetryInterval is the initial backoff interval between attempts.
	RetryInterval time.Duration
}

// DefaultConfig returns the default retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		StageTimeout:  2 * time.Minute,
		RetryInterval: 2 * time.Second,
	}
}

// Steps collects the agent step for each pipeline stage.
type Steps struct {
	Scout     agents.Step
	Extractor agents.Step
	Matcher   agents.Step
	Writer    agents.Step
	Decider   agents.Step
	Tracker   agents.Step
}

// StageError reports which stage a run failed in. The run state preserved
// alongside it identifies what earlier stages salvaged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Engine is the workflow state machine. One engine serves many concurrent
// runs; all per-run state lives in the RunState being threaded through.
type Engine struct {
	steps       map[Stage]agents.Step
	checkpoints CheckpointStore
	docs        DocumentStore
	cfg         Config
	log         *zap.Logger
}

// New creates a workflow engine.
func New(steps Steps, checkpoints CheckpointStore, docs DocumentStore, cfg Config, log *zap.Logger) *Engine {
	return &Engine{
		steps: map[Stage]agents.Step{
			StageSearch:       steps.Scout,
			StageExtract:      steps.Extractor,
			StageMatch:        steps.Matcher,
			StageGenerateDocs: steps.Writer,
			StageDecide:       steps.Decider,
			StageTrack:        steps.Tracker,
		},
		checkpoints: checkpoints,
		docs:        docs,
		cfg:         cfg,
		log:         log,
	}
}

// Run executes a workflow run to a terminal stage and returns the final
// state. A run with a pre-selected job enters at MATCH; everything else
// starts at SEARCH. The returned error, when non-nil, is a StageError whose
// state identifies the failing stage and what was salvaged.
func (e *Engine) Run(ctx context.Context, state *types.RunState) (*types.RunState, error) {
	if err := e.checkpoints.UpdateRunStatus(ctx, state.RunID, RunStatusRunning); err != nil {
		return state, fmt.Errorf("failed to mark run running: %w", err)
	}
	return e.runFrom(ctx, entryStage(state.SelectedJobID), state)
}

// Resume continues a checkpointed run from the stage after its last completed
// one. Completed stages are never re-invoked.
func (e *Engine) Resume(ctx context.Context, runID string) (*types.RunState, error) {
	stageName, state, err := e.checkpoints.LatestCheckpoint(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint for run %s: %w", runID, err)
	}
	if state == nil {
		return nil, fmt.Errorf("no checkpoint found for run %s", runID)
	}

	next := nextStage(Stage(stageName), decision.Decision(state.Decision))
	if terminal(next) && next != StageDeferred {
		return state, fmt.Errorf("run %s already reached a terminal stage", runID)
	}
	if next == StageDeferred {
		// A deferred run re-enters the stage that parked it.
		next = Stage(stageName)
	}

	e.log.Info("resuming run",
		zap.String("run_id", runID),
		zap.String("from_stage", stageName),
		zap.String("next_stage", string(next)))

	if err := e.checkpoints.UpdateRunStatus(ctx, runID, RunStatusRunning); err != nil {
		return state, fmt.Errorf("failed to mark run running: %w", err)
	}
	return e.runFrom(ctx, next, state)
}

func (e *Engine) runFrom(ctx context.Context, stage Stage, state *types.RunState) (*types.RunState, error) {
	for !terminal(stage) {
		// Cooperative cancellation point between stages; an in-flight stage
		// finishes or times out, it is never interrupted mid-write.
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("run %s cancelled before stage %s: %w", state.RunID, stage, err)
		}

		step := e.steps[stage]
		if step == nil {
			return state, e.fail(ctx, stage, state, fmt.Errorf("no step registered for stage %s", stage))
		}

		e.log.Debug("entering stage", zap.String("run_id", state.RunID), zap.String("stage", string(stage)))

		if err := e.executeStage(ctx, step, state); err != nil {
			if errs.IsIncomplete(err) {
				return state, e.defer_(ctx, stage, state, err)
			}
			return state, e.fail(ctx, stage, state, err)
		}

		if err := e.checkpoints.SaveCheckpoint(ctx, state.RunID, string(stage), state); err != nil {
			return state, e.fail(ctx, stage, state, fmt.Errorf("failed to checkpoint: %w", err))
		}

		next := nextStage(stage, decision.Decision(state.Decision))

		if stage == StageDecide && next == StageDone {
			// Rejected: documents generated speculatively are discarded from
			// the persisted records.
			if err := e.discardDocuments(ctx, state); err != nil {
				return state, e.fail(ctx, stage, state, err)
			}
		}

		e.log.Info("stage completed",
			zap.String("run_id", state.RunID),
			zap.String("stage", string(stage)),
			zap.String("next", string(next)))
		stage = next
	}

	switch stage {
	case StageDeferred:
		if err := e.checkpoints.UpdateRunStatus(ctx, state.RunID, RunStatusDeferred); err != nil {
			return state, fmt.Errorf("failed to mark run deferred: %w", err)
		}
	default:
		if err := e.checkpoints.UpdateRunStatus(ctx, state.RunID, RunStatusCompleted); err != nil {
			return state, fmt.Errorf("failed to mark run completed: %w", err)
		}
	}
	return state, nil
}

// executeStage runs one stage with the retry policy: transient failures and
// per-attempt timeouts are retried with exponential backoff, everything else
// aborts immediately.
func (e *Engine) executeStage(ctx context.Context, step agents.Step, state *types.RunState) error {
	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.StageTimeout)
		defer cancel()

		err := step.Run(attemptCtx, state)
		if err == nil {
			return nil
		}

		// A per-attempt timeout is recoverable as long as the run itself was
		// not cancelled.
		timedOut := errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
		if errs.IsTransient(err) || timedOut {
			e.log.Warn("stage attempt failed, retrying",
				zap.String("run_id", state.RunID),
				zap.String("step", step.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.cfg.RetryInterval
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(e.cfg.MaxRetries)), ctx))
}

func (e *Engine) discardDocuments(ctx context.Context, state *types.RunState) error {
	if len(state.Documents) == 0 {
		return nil
	}
	if err := e.docs.DeleteRunDocuments(ctx, state.RunID); err != nil {
		return fmt.Errorf("failed to discard documents: %w", err)
	}
	state.Documents = nil
	e.log.Info("discarded documents for rejected run", zap.String("run_id", state.RunID))
	return nil
}

// defer_ parks the run: the state is snapshotted and the run marked deferred
// so an external scheduler can re-enter it later. Missing upstream data is a
// normal outcome, not an error, so Run returns nil.
func (e *Engine) defer_(ctx context.Context, stage Stage, state *types.RunState, cause error) error {
	e.log.Info("run deferred",
		zap.String("run_id", state.RunID),
		zap.String("stage", string(stage)),
		zap.String("cause", cause.Error()))

	state.Decision = string(decision.Defer)
	state.DecisionRationale = cause.Error()

	if err := e.checkpoints.SaveFailure(ctx, state.RunID, string(stage), state); err != nil {
		return fmt.Errorf("failed to snapshot deferred run: %w", err)
	}
	return e.checkpoints.UpdateRunStatus(ctx, state.RunID, RunStatusDeferred)
}

// fail records the failure on the state, preserves the partial snapshot, and
// returns a StageError identifying the stage and what was salvaged.
func (e *Engine) fail(ctx context.Context, stage Stage, state *types.RunState, cause error) error {
	state.Failure = &types.Failure{
		Stage:   string(stage),
		Message: cause.Error(),
		At:      time.Now().UTC(),
	}

	e.log.Error("run failed",
		zap.String("run_id", state.RunID),
		zap.String("stage", string(stage)),
		zap.Error(cause))

	if err := e.checkpoints.SaveFailure(ctx, state.RunID, string(stage), state); err != nil {
		e.log.Error("failed to snapshot failed run", zap.String("run_id", state.RunID), zap.Error(err))
	}
	if err := e.checkpoints.UpdateRunStatus(ctx, state.RunID, RunStatusFailed); err != nil {
		e.log.Error("failed to mark run failed", zap.String("run_id", state.RunID), zap.Error(err))
	}

	return &StageError{Stage: stage, Err: cause}
}
