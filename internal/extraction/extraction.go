// Package extraction implements LLM-based job requirement extraction. The
// model's JSON output is validated against the extraction schema before
// anything reaches the matcher or the graph.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/types"
	"github.com/jonathan/job-agent/schemas"
)

const extractionPrompt = `You are an expert technical recruiter. Extract the skill requirements from the job description below.

Return ONLY valid JSON with this structure:
{
  "skills": [{"name": "skill name", "level": "junior|mid|senior", "mandatory": true|false}],
  "requirements": ["other non-skill requirements"],
  "summary": "one-sentence summary of the role"
}

Mark a skill as mandatory only when the posting clearly requires it ("must have", "required", "X+ years of"). Use lowercase skill names. Omit "level" when the posting does not state one.

Job description:
---
%s
---`

// Extractor extracts structured requirements from job descriptions via an
// LLM. It implements the agents.SkillExtractor contract.
type Extractor struct {
	client llm.Client
}

// New creates an LLM-backed extractor.
func New(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract structures a job description. Empty descriptions and extractions
// with no skills surface as incomplete data so the workflow defers instead of
// failing; model errors are transient and retried by the engine.
func (e *Extractor) Extract(ctx context.Context, description string) (types.Extraction, error) {
	if strings.TrimSpace(description) == "" {
		return types.Extraction{}, errs.Incomplete("extraction", "job description is empty")
	}

	raw, err := e.client.GenerateJSON(ctx, fmt.Sprintf(extractionPrompt, description), llm.TierLite)
	if err != nil {
		return types.Extraction{}, errs.Transient("llm extraction", err)
	}

	if err := schemas.ValidateExtraction([]byte(raw)); err != nil {
		return types.Extraction{}, errs.Incomplete("extraction", fmt.Sprintf("model output failed validation: %v", err))
	}

	var extraction types.Extraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return types.Extraction{}, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	if !extraction.Complete() {
		return types.Extraction{}, errs.Incomplete("extraction", "no skills found in job description")
	}

	return extraction, nil
}
