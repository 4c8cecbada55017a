// Package decision maps a match result onto an application action. The
// engine itself is state-free: every decision is a function of the score, the
// configured thresholds, the autonomy flag, and the rate limiter's answer.
package decision

import (
	"context"
	"fmt"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/ratelimit"
	"github.com/jonathan/job-agent/internal/types"
)

// Decision is the action chosen for a match.
type Decision string

// Decisions.
const (
	AutoApply       Decision = "AUTO_APPLY"
	RequestApproval Decision = "REQUEST_APPROVAL"
	Reject          Decision = "REJECT"
	Defer           Decision = "DEFER"
)

// Default thresholds, matching the autonomous-mode defaults of a 90 auto-apply
// score and a 75 review floor on the 0-100 scale, normalized to [0,1].
const (
	DefaultAutoApplyThreshold = 0.90
	DefaultApprovalThreshold  = 0.75
)

// Thresholds configures the decision boundaries. ApprovalThreshold must not
// exceed AutoApplyThreshold.
type Thresholds struct {
	AutoApply float64 `json:"auto_apply" validate:"gte=0,lte=1"`
	Approval  float64 `json:"approval" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns the 0.90/0.75 defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoApply: DefaultAutoApplyThreshold, Approval: DefaultApprovalThreshold}
}

// Validate checks threshold invariants.
func (t Thresholds) Validate() error {
	if t.AutoApply < 0 || t.AutoApply > 1 {
		return errs.Config("auto_apply", "must be in [0,1]")
	}
	if t.Approval < 0 || t.Approval > 1 {
		return errs.Config("approval", "must be in [0,1]")
	}
	if t.Approval > t.AutoApply {
		return errs.Config("approval", "approval threshold must not exceed auto-apply threshold")
	}
	return nil
}

// Result carries the decision and the reason it was made, in the same
// (outcome, reason) shape the tracker records alongside the application.
type Result struct {
	Decision  Decision
	Rationale string
}

// Engine decides whether a match is auto-applied, queued for human approval,
// rejected, or deferred. It consults the rate limiter read-only; recording
// the spent slot is the tracker's job, after the application actually exists.
type Engine struct {
	thresholds Thresholds
	limiter    *ratelimit.Limiter
}

// New creates a decision engine. The thresholds must already be validated;
// New returns a configuration error otherwise.
func New(thresholds Thresholds, limiter *ratelimit.Limiter) (*Engine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Engine{thresholds: thresholds, limiter: limiter}, nil
}

// Decide yields the action for a match. A nil match or one computed without
// extracted skills defers: missing upstream data is a retry-later signal,
// not a rejection. A score above the auto-apply threshold degrades to
// REQUEST_APPROVAL, never silently drops, when autonomy is off or the rate
// budget is spent.
func (e *Engine) Decide(ctx context.Context, match *types.MatchResult, autonomyEnabled bool) (Result, error) {
	if match == nil {
		return Result{Decision: Defer, Rationale: "no match result available yet"}, nil
	}

	score := match.Score
	switch {
	case score < e.thresholds.Approval:
		return Result{
			Decision:  Reject,
			Rationale: fmt.Sprintf("score %.2f below approval threshold %.2f", score, e.thresholds.Approval),
		}, nil

	case score < e.thresholds.AutoApply:
		return Result{
			Decision:  RequestApproval,
			Rationale: fmt.Sprintf("score %.2f in approval band [%.2f, %.2f)", score, e.thresholds.Approval, e.thresholds.AutoApply),
		}, nil
	}

	if !autonomyEnabled {
		return Result{
			Decision:  RequestApproval,
			Rationale: fmt.Sprintf("score %.2f qualifies for auto-apply but autonomy is disabled", score),
		}, nil
	}

	admitted, err := e.limiter.TryAdmit(ctx, match.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check rate budget: %w", err)
	}
	if !admitted {
		return Result{
			Decision:  RequestApproval,
			Rationale: fmt.Sprintf("score %.2f qualifies for auto-apply but the rate budget is exhausted", score),
		}, nil
	}

	return Result{
		Decision:  AutoApply,
		Rationale: fmt.Sprintf("score %.2f at or above auto-apply threshold %.2f with budget available", score, e.thresholds.AutoApply),
	}, nil
}
