package workflow

import "github.com/jonathan/job-agent/internal/decision"

// Stage names the states of the run state machine.
type Stage string

// Pipeline stages. SEARCH through TRACK invoke exactly one agent step each;
// DONE, DEFERRED, and FAILED are terminal for this invocation (a DEFERRED run
// is re-entered later by an external scheduler, a FAILED run keeps its
// partial state for inspection).
const (
	StageSearch       Stage = "search"
	StageExtract      Stage = "extract"
	StageMatch        Stage = "match"
	StageGenerateDocs Stage = "generate_docs"
	StageDecide       Stage = "decide"
	StageTrack        Stage = "track"
	StageDone         Stage = "done"
	StageDeferred     Stage = "deferred"
	StageFailed       Stage = "failed"
)

// Run statuses persisted on the run record.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusDeferred  = "deferred"
	RunStatusFailed    = "failed"
)

// terminal reports whether the stage ends this invocation.
func terminal(stage Stage) bool {
	switch stage {
	case StageDone, StageDeferred, StageFailed:
		return true
	}
	return false
}

// nextStage returns the stage that follows current. Every transition is
// success-only except DECIDE, whose outgoing edge depends on the decision
// value carried in the state: approvals and auto-applies proceed to TRACK,
// rejections finish without tracking, and deferrals park the run for the
// scheduler.
func nextStage(current Stage, decided decision.Decision) Stage {
	switch current {
	case StageSearch:
		return StageExtract
	case StageExtract:
		return StageMatch
	case StageMatch:
		return StageGenerateDocs
	case StageGenerateDocs:
		return StageDecide
	case StageDecide:
		switch decided {
		case decision.AutoApply, decision.RequestApproval:
			return StageTrack
		case decision.Reject:
			return StageDone
		case decision.Defer:
			return StageDeferred
		}
		return StageFailed
	case StageTrack:
		return StageDone
	}
	return StageFailed
}

// entryStage returns the first stage of a run: MATCH when the caller supplied
// a pre-selected job (which is assumed to already exist in the graph), SEARCH
// otherwise.
func entryStage(selectedJobID string) Stage {
	if selectedJobID != "" {
		return StageMatch
	}
	return StageSearch
}
