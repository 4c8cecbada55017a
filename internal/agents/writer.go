package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// Writer generates the application documents for the run's target job. The
// documents are speculative at this point: the decision stage may still
// reject the match, in which case the engine discards what was persisted.
type Writer struct {
	generator DocumentGenerator
	memory    GraphMemory
	log       *zap.Logger
}

// NewWriter creates the writer step.
func NewWriter(generator DocumentGenerator, memory GraphMemory, log *zap.Logger) *Writer {
	return &Writer{generator: generator, memory: memory, log: log}
}

// Name implements Step.
func (w *Writer) Name() string { return "writer" }

// Run drafts a resume and cover letter for the best match and fills the
// Documents namespace.
func (w *Writer) Run(ctx context.Context, state *types.RunState) error {
	jobID := state.TargetJobID()
	if jobID == "" {
		return errs.Incomplete("document generation", "no matched job to write documents for")
	}

	profile, err := w.memory.GetUserProfile(ctx, state.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("user profile not found: %s", state.UserID)
	}

	job, err := resolveJob(ctx, w.memory, state, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job == nil {
		return fmt.Errorf("job not found in graph: %s", jobID)
	}

	docs, err := w.generator.Generate(ctx, profile, job)
	if err != nil {
		return fmt.Errorf("document generation failed for job %s: %w", jobID, err)
	}

	if err := w.memory.SaveDocuments(ctx, state.RunID, jobID, docs); err != nil {
		return fmt.Errorf("failed to persist documents for job %s: %w", jobID, err)
	}

	state.SetDocuments(jobID, docs)
	w.log.Info("writer generated documents", zap.String("run_id", state.RunID), zap.String("job_id", jobID))
	return nil
}
