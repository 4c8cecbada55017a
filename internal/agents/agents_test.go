package agents

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/job-agent/internal/types"
)

// memGraph is an in-memory GraphMemory for the step tests.
type memGraph struct {
	mu           sync.Mutex
	profiles     map[string]*types.UserProfile
	jobs         map[string]*types.Job
	linkedSkills map[string][]types.JobSkill
	matches      map[string]*types.MatchResult
	applications map[string]*types.Application
	documents    map[string]types.Documents
}

func newMemGraph() *memGraph {
	return &memGraph{
		profiles:     make(map[string]*types.UserProfile),
		jobs:         make(map[string]*types.Job),
		linkedSkills: make(map[string][]types.JobSkill),
		matches:      make(map[string]*types.MatchResult),
		applications: make(map[string]*types.Application),
		documents:    make(map[string]types.Documents),
	}
}

func (g *memGraph) GetUserProfile(_ context.Context, userID string) (*types.UserProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profiles[userID], nil
}

func (g *memGraph) GetJob(_ context.Context, jobID string) (*types.Job, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jobs[jobID], nil
}

func (g *memGraph) UpsertJob(_ context.Context, job *types.Job) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := *job
	g.jobs[job.ID] = &stored
	return nil
}

func (g *memGraph) LinkJobSkills(_ context.Context, jobID string, skills []types.JobSkill) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.linkedSkills[jobID] = skills
	if job, ok := g.jobs[jobID]; ok {
		job.Skills = skills
	}
	return nil
}

func (g *memGraph) CreateMatch(_ context.Context, match *types.MatchResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := *match
	g.matches[match.UserID+"|"+match.JobID] = &stored
	return nil
}

func (g *memGraph) CreateApplication(_ context.Context, app *types.Application) (*types.Application, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := app.UserID + "|" + app.JobID
	if existing, ok := g.applications[key]; ok {
		copied := *existing
		return &copied, nil
	}
	stored := *app
	g.applications[key] = &stored
	copied := stored
	return &copied, nil
}

func (g *memGraph) UpdateApplicationStatus(_ context.Context, applicationID string, status types.ApplicationStatus, at time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, app := range g.applications {
		if app.ID == applicationID {
			return app.Transition(status, at)
		}
	}
	return nil
}

func (g *memGraph) SaveDocuments(_ context.Context, runID, jobID string, docs types.Documents) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.documents[runID+"|"+jobID] = docs
	return nil
}

func (g *memGraph) applicationFor(userID, jobID string) *types.Application {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applications[userID+"|"+jobID]
}

// fixedSimilarity returns one similarity value for every pair.
type fixedSimilarity struct {
	value float64
	err   error
}

func (s fixedSimilarity) Similarity(context.Context, string, string) (float64, error) {
	return s.value, s.err
}

// listSource returns a fixed job list for every search.
type listSource struct {
	jobs []types.Job
	err  error
}

func (s listSource) Search(context.Context, string, string, string, int) ([]types.Job, error) {
	return s.jobs, s.err
}

func testProfile(skills ...string) *types.UserProfile {
	profile := &types.UserProfile{ID: "user-1", Name: "Dana", ExperienceYears: 6}
	for _, name := range skills {
		profile.Skills = append(profile.Skills, types.Skill{Name: name})
	}
	return profile
}
