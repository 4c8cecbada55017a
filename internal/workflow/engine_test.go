package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// memCheckpoints is an in-memory CheckpointStore recording call order.
type memCheckpoints struct {
	stages   []string
	states   map[string][]byte
	statuses []string
	failures map[string]string
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{states: make(map[string][]byte), failures: make(map[string]string)}
}

func (m *memCheckpoints) SaveCheckpoint(_ context.Context, _ string, stage string, state *types.RunState) error {
	snapshot, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if _, seen := m.states[stage]; !seen {
		m.stages = append(m.stages, stage)
	}
	m.states[stage] = snapshot
	return nil
}

func (m *memCheckpoints) LatestCheckpoint(_ context.Context, _ string) (string, *types.RunState, error) {
	if len(m.stages) == 0 {
		return "", nil, nil
	}
	stage := m.stages[len(m.stages)-1]
	var state types.RunState
	if err := json.Unmarshal(m.states[stage], &state); err != nil {
		return "", nil, err
	}
	return stage, &state, nil
}

func (m *memCheckpoints) SaveFailure(_ context.Context, _ string, stage string, _ *types.RunState) error {
	m.failures[stage] = stage
	return nil
}

func (m *memCheckpoints) UpdateRunStatus(_ context.Context, _ string, status string) error {
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memCheckpoints) finalStatus() string {
	if len(m.statuses) == 0 {
		return ""
	}
	return m.statuses[len(m.statuses)-1]
}

type memDocs struct {
	deleted int
}

func (m *memDocs) DeleteRunDocuments(context.Context, string) error {
	m.deleted++
	return nil
}

// fakeStep runs a mutation function and counts invocations.
type fakeStep struct {
	name  string
	calls int
	run   func(*types.RunState) error
}

func (f *fakeStep) Name() string { return f.name }

func (f *fakeStep) Run(_ context.Context, state *types.RunState) error {
	f.calls++
	if f.run == nil {
		return nil
	}
	return f.run(state)
}

type fixture struct {
	scout, extractor, matcher, writer, decider, tracker *fakeStep
	checkpoints                                         *memCheckpoints
	docs                                                *memDocs
	engine                                              *Engine
}

func newFixture(decided decision.Decision) *fixture {
	f := &fixture{
		scout: &fakeStep{name: "scout", run: func(s *types.RunState) error { s.Jobs = []types.Job{{ID: "job-1"}}; return nil }},
		extractor: &fakeStep{name: "extractor", run: func(s *types.RunState) error {
			s.SetExtraction("job-1", types.Extraction{Skills: []types.JobSkill{{Name: "go"}}})
			return nil
		}},
		matcher: &fakeStep{name: "matcher", run: func(s *types.RunState) error {
			s.Matches = []types.MatchResult{{JobID: "job-1", Score: 0.95}}
			return nil
		}},
		writer: &fakeStep{name: "writer", run: func(s *types.RunState) error {
			s.SetDocuments("job-1", types.Documents{Resume: "r", CoverLetter: "c"})
			return nil
		}},
		decider: &fakeStep{name: "decider", run: func(s *types.RunState) error {
			s.Decision = string(decided)
			return nil
		}},
		tracker:     &fakeStep{name: "tracker", run: func(s *types.RunState) error { s.ApplicationID = "app-1"; return nil }},
		checkpoints: newMemCheckpoints(),
		docs:        &memDocs{},
	}

	cfg := Config{MaxRetries: 2, StageTimeout: time.Second, RetryInterval: time.Millisecond}
	f.engine = New(Steps{
		Scout:     f.scout,
		Extractor: f.extractor,
		Matcher:   f.matcher,
		Writer:    f.writer,
		Decider:   f.decider,
		Tracker:   f.tracker,
	}, f.checkpoints, f.docs, cfg, zap.NewNop())
	return f
}

func TestRun_FullPipelineAutoApply(t *testing.T) {
	f := newFixture(decision.AutoApply)

	final, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.NoError(t, err)

	assert.Equal(t, "app-1", final.ApplicationID)
	assert.Equal(t, 1, f.tracker.calls)
	assert.Equal(t,
		[]string{"search", "extract", "match", "generate_docs", "decide", "track"},
		f.checkpoints.stages)
	assert.Equal(t, RunStatusCompleted, f.checkpoints.finalStatus())
	assert.Zero(t, f.docs.deleted)
}

func TestRun_RejectSkipsTrackingAndDiscardsDocuments(t *testing.T) {
	f := newFixture(decision.Reject)

	final, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.NoError(t, err)

	assert.Zero(t, f.tracker.calls)
	assert.Equal(t, 1, f.docs.deleted)
	assert.Empty(t, final.Documents)
	assert.Equal(t, RunStatusCompleted, f.checkpoints.finalStatus())
}

func TestRun_PreselectedJobEntersAtMatch(t *testing.T) {
	f := newFixture(decision.RequestApproval)
	f.matcher.run = func(s *types.RunState) error {
		s.Matches = []types.MatchResult{{JobID: "job-42", Score: 0.8}}
		return nil
	}

	_, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", SelectedJobID: "job-42"})
	require.NoError(t, err)

	assert.Zero(t, f.scout.calls)
	assert.Zero(t, f.extractor.calls)
	assert.Equal(t, 1, f.matcher.calls)
	assert.Equal(t, 1, f.tracker.calls)
}

func TestRun_IncompleteDataDefers(t *testing.T) {
	f := newFixture(decision.AutoApply)
	f.scout.run = func(*types.RunState) error {
		return errs.Incomplete("job search", "no jobs matched")
	}

	final, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.NoError(t, err, "deferral is an outcome, not an error")

	assert.Equal(t, string(decision.Defer), final.Decision)
	assert.Equal(t, RunStatusDeferred, f.checkpoints.finalStatus())
	assert.Equal(t, 1, f.scout.calls, "incomplete data is not retried")
	assert.Zero(t, f.extractor.calls)
}

func TestRun_TransientFailureRetriesThenSucceeds(t *testing.T) {
	f := newFixture(decision.AutoApply)
	attempts := 0
	f.scout.run = func(s *types.RunState) error {
		attempts++
		if attempts < 3 {
			return errs.Transient("job search", errors.New("board unavailable"))
		}
		s.Jobs = []types.Job{{ID: "job-1"}}
		return nil
	}

	_, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRun_RetriesExhaustedFailsWithPartialState(t *testing.T) {
	f := newFixture(decision.AutoApply)
	f.matcher.run = func(*types.RunState) error {
		return errs.Transient("similarity", errors.New("embedding service down"))
	}

	final, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageMatch, stageErr.Stage)

	// Earlier stages' output survives on the final state.
	assert.Len(t, final.Jobs, 1)
	require.NotNil(t, final.Failure)
	assert.Equal(t, string(StageMatch), final.Failure.Stage)
	assert.Equal(t, RunStatusFailed, f.checkpoints.finalStatus())
	assert.Equal(t, 3, f.matcher.calls, "initial attempt plus MaxRetries")
}

func TestRun_NonTransientFailureDoesNotRetry(t *testing.T) {
	f := newFixture(decision.AutoApply)
	f.extractor.run = func(*types.RunState) error {
		return fmt.Errorf("malformed job payload")
	}

	_, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.Error(t, err)
	assert.Equal(t, 1, f.extractor.calls)
	assert.Equal(t, RunStatusFailed, f.checkpoints.finalStatus())
}

func TestResume_SkipsCompletedStages(t *testing.T) {
	f := newFixture(decision.AutoApply)
	f.writer.run = func(*types.RunState) error {
		return errs.Transient("docs", errors.New("model overloaded"))
	}

	_, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.Error(t, err)

	searchCalls, extractCalls, matchCalls := f.scout.calls, f.extractor.calls, f.matcher.calls

	// Writer recovers; resuming must not re-invoke the completed stages.
	f.writer.run = func(s *types.RunState) error {
		s.SetDocuments("job-1", types.Documents{Resume: "r", CoverLetter: "c"})
		return nil
	}

	final, err := f.engine.Resume(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, searchCalls, f.scout.calls)
	assert.Equal(t, extractCalls, f.extractor.calls)
	assert.Equal(t, matchCalls, f.matcher.calls)
	assert.Equal(t, "app-1", final.ApplicationID)
	assert.Equal(t, RunStatusCompleted, f.checkpoints.finalStatus())
}

func TestResume_NoCheckpointErrors(t *testing.T) {
	f := newFixture(decision.AutoApply)
	_, err := f.engine.Resume(context.Background(), "run-unknown")
	assert.Error(t, err)
}

func TestResume_CompletedRunErrors(t *testing.T) {
	f := newFixture(decision.AutoApply)

	_, err := f.engine.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.NoError(t, err)

	_, err = f.engine.Resume(context.Background(), "run-1")
	assert.Error(t, err)
}

func TestRun_CancelledBetweenStages(t *testing.T) {
	f := newFixture(decision.AutoApply)
	ctx, cancel := context.WithCancel(context.Background())
	f.scout.run = func(s *types.RunState) error {
		s.Jobs = []types.Job{{ID: "job-1"}}
		cancel()
		return nil
	}

	_, err := f.engine.Run(ctx, &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	require.Error(t, err)
	assert.Zero(t, f.extractor.calls, "no stage starts after cancellation")
}
