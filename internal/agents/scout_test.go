package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

func TestScout_FiltersByPreferences(t *testing.T) {
	graph := newMemGraph()
	profile := testProfile("go")
	profile.Preferences = types.Preferences{
		ExcludedCompanies: []string{"Blocked Inc"},
		EmploymentTypes:   []string{"full_time"},
	}
	graph.profiles["user-1"] = profile

	source := listSource{jobs: []types.Job{
		{ID: "job-1", Title: "Engineer", Company: "Acme", EmploymentType: "full_time"},
		{ID: "job-2", Title: "Engineer", Company: "Blocked Inc", EmploymentType: "full_time"},
		{ID: "job-3", Title: "Engineer", Company: "Other", EmploymentType: "contract"},
	}}

	scout := NewScout(source, graph, 10, zap.NewNop())
	state := &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go engineer"}

	require.NoError(t, scout.Run(context.Background(), state))

	require.Len(t, state.Jobs, 1)
	assert.Equal(t, "job-1", state.Jobs[0].ID)
	assert.NotNil(t, graph.jobs["job-1"], "kept jobs are persisted")
	assert.Nil(t, graph.jobs["job-2"], "excluded jobs never reach the graph")
}

func TestScout_NoKeywordsFails(t *testing.T) {
	scout := NewScout(listSource{}, newMemGraph(), 10, zap.NewNop())
	err := scout.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1"})
	assert.Error(t, err)
	assert.False(t, errs.IsIncomplete(err))
}

func TestScout_EverythingFilteredDefers(t *testing.T) {
	graph := newMemGraph()
	profile := testProfile("go")
	profile.Preferences = types.Preferences{ExcludedCompanies: []string{"Acme"}}
	graph.profiles["user-1"] = profile

	source := listSource{jobs: []types.Job{{ID: "job-1", Company: "Acme"}}}
	scout := NewScout(source, graph, 10, zap.NewNop())

	err := scout.Run(context.Background(), &types.RunState{RunID: "run-1", UserID: "user-1", Keywords: "go"})
	assert.True(t, errs.IsIncomplete(err))
}
