package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/scoring"
	"github.com/jonathan/job-agent/internal/types"
)

func TestMatcher_ScoresAndSortsMatches(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go", "postgresql")

	state := &types.RunState{
		RunID:  "run-1",
		UserID: "user-1",
		Jobs: []types.Job{
			{ID: "job-good", Description: "go service work"},
			{ID: "job-poor", Description: "frontend work"},
		},
	}
	state.SetExtraction("job-good", types.Extraction{Skills: []types.JobSkill{{Name: "go"}, {Name: "postgresql"}}})
	state.SetExtraction("job-poor", types.Extraction{Skills: []types.JobSkill{{Name: "react"}, {Name: "css"}}})

	matcher := NewMatcher(graph, fixedSimilarity{value: 0.9}, scoring.DefaultWeights(), 0, zap.NewNop())
	require.NoError(t, matcher.Run(context.Background(), state))

	require.Len(t, state.Matches, 2)
	assert.Equal(t, "job-good", state.Matches[0].JobID, "best score first")
	assert.Greater(t, state.Matches[0].Score, state.Matches[1].Score)
	assert.NotNil(t, graph.matches["user-1|job-good"], "matches are persisted")
	assert.NotEmpty(t, state.Matches[0].Rationale)
}

func TestMatcher_DropsBelowFloor(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go")

	state := &types.RunState{
		RunID:  "run-1",
		UserID: "user-1",
		Jobs:   []types.Job{{ID: "job-poor", Description: "unrelated"}},
	}
	state.SetExtraction("job-poor", types.Extraction{Skills: []types.JobSkill{{Name: "cobol"}}})

	matcher := NewMatcher(graph, fixedSimilarity{value: 0.1}, scoring.DefaultWeights(), 0.6, zap.NewNop())
	require.NoError(t, matcher.Run(context.Background(), state))
	assert.Empty(t, state.Matches)
}

func TestMatcher_SelectedJobExemptFromFloor(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go")
	graph.jobs["job-42"] = &types.Job{
		ID:          "job-42",
		Description: "cobol maintenance",
		Skills:      []types.JobSkill{{Name: "cobol"}},
	}

	state := &types.RunState{RunID: "run-1", UserID: "user-1", SelectedJobID: "job-42"}

	matcher := NewMatcher(graph, fixedSimilarity{value: 0.1}, scoring.DefaultWeights(), 0.6, zap.NewNop())
	require.NoError(t, matcher.Run(context.Background(), state))

	require.Len(t, state.Matches, 1, "a caller-selected job is always scored and kept")
	assert.Equal(t, "job-42", state.Matches[0].JobID)
}

func TestMatcher_SelectedJobMissingFromGraph(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go")

	matcher := NewMatcher(graph, fixedSimilarity{value: 0.5}, scoring.DefaultWeights(), 0, zap.NewNop())
	err := matcher.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", SelectedJobID: "job-missing"})
	assert.Error(t, err)
}

func TestMatcher_NoExtractedSkillsDefers(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go")

	state := &types.RunState{
		RunID:  "run-1",
		UserID: "user-1",
		Jobs:   []types.Job{{ID: "job-1", Description: "something"}},
	}
	state.SetExtraction("job-1", types.Extraction{})

	matcher := NewMatcher(graph, fixedSimilarity{value: 0.5}, scoring.DefaultWeights(), 0, zap.NewNop())
	err := matcher.Run(context.Background(), state)
	assert.True(t, errs.IsIncomplete(err))
}

func TestMatcher_SimilarityFailureIsTransient(t *testing.T) {
	graph := newMemGraph()
	graph.profiles["user-1"] = testProfile("go")

	state := &types.RunState{
		RunID:  "run-1",
		UserID: "user-1",
		Jobs:   []types.Job{{ID: "job-1", Description: "go work"}},
	}
	state.SetExtraction("job-1", types.Extraction{Skills: []types.JobSkill{{Name: "go"}}})

	matcher := NewMatcher(graph, fixedSimilarity{err: context.DeadlineExceeded}, scoring.DefaultWeights(), 0, zap.NewNop())
	err := matcher.Run(context.Background(), state)
	assert.True(t, errs.IsTransient(err))
}
