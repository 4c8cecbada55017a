package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// Scout searches the job board and stores discovered jobs in the graph.
type Scout struct {
	source     JobSource
	memory     GraphMemory
	maxResults int
	log        *zap.Logger
}

// NewScout creates the scout step.
func NewScout(source JobSource, memory GraphMemory, maxResults int, log *zap.Logger) *Scout {
	return &Scout{source: source, memory: memory, maxResults: maxResults, log: log}
}

// Name implements Step.
func (s *Scout) Name() string { return "scout" }

// Run searches for jobs matching the run's keywords, drops postings the user's
// preferences exclude, persists the rest, and fills the Jobs namespace.
func (s *Scout) Run(ctx context.Context, state *types.RunState) error {
	if state.Keywords == "" {
		return fmt.Errorf("no search keywords provided")
	}

	profile, err := s.memory.GetUserProfile(ctx, state.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("user profile not found: %s", state.UserID)
	}

	found, err := s.source.Search(ctx, state.Keywords, state.Location, state.EmploymentType, s.maxResults)
	if err != nil {
		return fmt.Errorf("job search failed: %w", err)
	}

	var jobs []types.Job
	for _, job := range found {
		if profile.ExcludesCompany(job.Company) {
			s.log.Debug("skipping excluded company", zap.String("job_id", job.ID), zap.String("company", job.Company))
			continue
		}
		if !profile.AcceptsEmploymentType(job.EmploymentType) {
			continue
		}
		if err := s.memory.UpsertJob(ctx, &job); err != nil {
			return fmt.Errorf("failed to store job %s: %w", job.ID, err)
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return errs.Incomplete("job search", "no jobs matched the search after preference filtering")
	}

	state.Jobs = jobs
	s.log.Info("scout found jobs", zap.String("run_id", state.RunID), zap.Int("count", len(jobs)))
	return nil
}
