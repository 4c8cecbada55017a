// Package agents implements the workflow's agent steps: Scout finds jobs,
// the Extractor structures them, the Matcher scores them, the Writer drafts
// application documents, the Decider picks an action, and the Tracker records
// the application. Each step reads the shared run state and writes only into
// its own namespace.
package agents

import (
	"context"
	"time"

	"github.com/jonathan/job-agent/internal/types"
)

// Step is one unit of workflow work. Run mutates the state's namespace owned
// by the step and nothing else; retries must be safe because the engine
// re-invokes Run on transient failures.
type Step interface {
	Name() string
	Run(ctx context.Context, state *types.RunState) error
}

// JobSource searches a job board. Implementations signal rate-limited and
// unavailable backends as transient errors.
type JobSource interface {
	Search(ctx context.Context, keywords, location, employmentType string, maxResults int) ([]types.Job, error)
}

// SkillExtractor turns a raw job description into structured requirements.
// A partial or empty result is reported via a DataIncompleteError, which
// defers the run instead of failing it.
type SkillExtractor interface {
	Extract(ctx context.Context, description string) (types.Extraction, error)
}

// Similarity computes a semantic similarity in [0,1] between two texts.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// DocumentGenerator drafts a tailored resume and cover letter.
type DocumentGenerator interface {
	Generate(ctx context.Context, profile *types.UserProfile, job *types.Job) (types.Documents, error)
}

// GraphMemory is the slice of the persistent knowledge graph the agents
// consume. Entity writes (jobs, skills, applications, documents) are
// idempotent upserts so retried steps never duplicate records; CreateMatch is
// append-only, each call recording one scoring pass, and readers resolve the
// latest result per job.
type GraphMemory interface {
	GetUserProfile(ctx context.Context, userID string) (*types.UserProfile, error)
	GetJob(ctx context.Context, jobID string) (*types.Job, error)
	UpsertJob(ctx context.Context, job *types.Job) error
	LinkJobSkills(ctx context.Context, jobID string, skills []types.JobSkill) error
	CreateMatch(ctx context.Context, match *types.MatchResult) error
	CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error)
	UpdateApplicationStatus(ctx context.Context, applicationID string, status types.ApplicationStatus, at time.Time) error
	SaveDocuments(ctx context.Context, runID, jobID string, docs types.Documents) error
}

// resolveJob returns the job carried in the run state, falling back to the
// graph for caller-selected jobs that skipped the search stage.
func resolveJob(ctx context.Context, memory GraphMemory, state *types.RunState, jobID string) (*types.Job, error) {
	if job := state.JobByID(jobID); job != nil {
		return job, nil
	}
	return memory.GetJob(ctx, jobID)
}
