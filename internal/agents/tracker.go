package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/ratelimit"
	"github.com/jonathan/job-agent/internal/types"
)

// Tracker records the application in the graph. Creation is idempotent on
// (user_id, job_id), so a retried stage finds the existing record instead of
// duplicating it. For AUTO_APPLY decisions the tracker charges the rate
// budget only after the record exists; losing the race for the last slot
// downgrades the decision to REQUEST_APPROVAL instead of over-applying.
type Tracker struct {
	memory  GraphMemory
	limiter *ratelimit.Limiter
	now     func() time.Time
	log     *zap.Logger
}

// NewTracker creates the tracker step.
func NewTracker(memory GraphMemory, limiter *ratelimit.Limiter, log *zap.Logger) *Tracker {
	return &Tracker{memory: memory, limiter: limiter, now: time.Now, log: log}
}

// Name implements Step.
func (t *Tracker) Name() string { return "tracker" }

// Run creates the application record and fills the ApplicationID namespace.
func (t *Tracker) Run(ctx context.Context, state *types.RunState) error {
	jobID := state.TargetJobID()
	if jobID == "" {
		return errs.Incomplete("tracking", "no target job to record an application for")
	}

	match := state.TargetMatch()
	if match == nil {
		return errs.Incomplete("tracking", "no match result for the target job")
	}

	now := t.now().UTC()
	app := &types.Application{
		ID:            uuid.NewString(),
		UserID:        state.UserID,
		JobID:         jobID,
		MatchScore:    match.Score,
		Status:        types.StatusPending,
		CreatedAt:     now,
		StatusHistory: []types.StatusChange{{Status: types.StatusPending, Timestamp: now}},
	}

	created, err := t.memory.CreateApplication(ctx, app)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	state.ApplicationID = created.ID

	if decision.Decision(state.Decision) != decision.AutoApply {
		t.log.Info("application recorded for approval",
			zap.String("run_id", state.RunID),
			zap.String("application_id", created.ID))
		return nil
	}

	// Charge the budget only now that the application exists; a failed
	// attempt above never consumed a slot.
	if err := t.limiter.Record(ctx, state.UserID); err != nil {
		if errs.IsExhausted(err) {
			state.Decision = string(decision.RequestApproval)
			state.DecisionRationale = fmt.Sprintf("%s; downgraded: %v", state.DecisionRationale, err)
			t.log.Warn("auto-apply downgraded to approval",
				zap.String("run_id", state.RunID),
				zap.String("application_id", created.ID),
				zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to record rate budget: %w", err)
	}

	if created.Status == types.StatusPending {
		if err := t.memory.UpdateApplicationStatus(ctx, created.ID, types.StatusSubmitted, t.now().UTC()); err != nil {
			return fmt.Errorf("failed to mark application submitted: %w", err)
		}
	}

	t.log.Info("application auto-submitted",
		zap.String("run_id", state.RunID),
		zap.String("application_id", created.ID),
		zap.Float64("score", match.Score))
	return nil
}
