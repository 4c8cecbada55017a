package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/types"
)

// Decider applies the decision engine to the run's best match and fills the
// Decision namespace. Routing on the decision value is the engine's job.
type Decider struct {
	engine   *decision.Engine
	autonomy bool
	log      *zap.Logger
}

// NewDecider creates the decision step. autonomy controls whether AUTO_APPLY
// is reachable at all; with autonomy off every qualifying match degrades to
// REQUEST_APPROVAL.
func NewDecider(engine *decision.Engine, autonomy bool, log *zap.Logger) *Decider {
	return &Decider{engine: engine, autonomy: autonomy, log: log}
}

// Name implements Step.
func (d *Decider) Name() string { return "decider" }

// Run decides the action for the target match.
func (d *Decider) Run(ctx context.Context, state *types.RunState) error {
	result, err := d.engine.Decide(ctx, state.TargetMatch(), d.autonomy)
	if err != nil {
		return fmt.Errorf("decision failed: %w", err)
	}

	state.Decision = string(result.Decision)
	state.DecisionRationale = result.Rationale

	d.log.Info("decision made",
		zap.String("run_id", state.RunID),
		zap.String("job_id", state.TargetJobID()),
		zap.String("decision", state.Decision),
		zap.String("rationale", state.DecisionRationale))
	return nil
}
