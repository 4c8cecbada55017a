package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// Extractor structures raw job descriptions into skill requirements and
// links the extracted skills to their jobs in the graph.
type Extractor struct {
	extract SkillExtractor
	memory  GraphMemory
	log     *zap.Logger
}

// NewExtractor creates the extractor step.
func NewExtractor(extract SkillExtractor, memory GraphMemory, log *zap.Logger) *Extractor {
	return &Extractor{extract: extract, memory: memory, log: log}
}

// Name implements Step.
func (e *Extractor) Name() string { return "extractor" }

// Run extracts structured requirements for every job found by the scout and
// fills the Extracted namespace. Jobs whose extraction comes back empty are
// recorded as incomplete and skipped by the matcher; if every extraction is
// empty the whole run defers.
func (e *Extractor) Run(ctx context.Context, state *types.RunState) error {
	if len(state.Jobs) == 0 {
		return errs.Incomplete("extraction", "no jobs to extract")
	}

	complete := 0
	for _, job := range state.Jobs {
		extraction, err := e.extract.Extract(ctx, job.Description)
		if err != nil {
			if errs.IsIncomplete(err) {
				e.log.Warn("extraction incomplete", zap.String("job_id", job.ID), zap.Error(err))
				state.SetExtraction(job.ID, types.Extraction{})
				continue
			}
			return fmt.Errorf("failed to extract job %s: %w", job.ID, err)
		}

		normalizeExtraction(&extraction)
		state.SetExtraction(job.ID, extraction)
		complete++

		if err := e.memory.LinkJobSkills(ctx, job.ID, extraction.Skills); err != nil {
			return fmt.Errorf("failed to link skills for job %s: %w", job.ID, err)
		}
	}

	if complete == 0 {
		return errs.Incomplete("extraction", "no job yielded extractable requirements")
	}

	e.log.Info("extractor structured jobs",
		zap.String("run_id", state.RunID),
		zap.Int("complete", complete),
		zap.Int("total", len(state.Jobs)))
	return nil
}

func normalizeExtraction(extraction *types.Extraction) {
	seen := make(map[string]bool, len(extraction.Skills))
	normalized := extraction.Skills[:0]
	for _, skill := range extraction.Skills {
		name := types.NormalizeSkillName(skill.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		skill.Name = name
		normalized = append(normalized, skill)
	}
	extraction.Skills = normalized
}
