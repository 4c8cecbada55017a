// Package docgen implements LLM-based generation of application documents.
// The resume and cover letter are drafted concurrently and validated against
// the documents schema before they are handed back to the writer agent.
package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/types"
	"github.com/jonathan/job-agent/schemas"
)

const resumePrompt = `You are a professional resume writer. Draft a plain-text resume for the candidate below, tailored to the job posting. Emphasize the candidate's skills that match the posting. Do not invent experience the candidate does not have.

Candidate:
%s

Job posting: %s at %s
%s

Return only the resume text, no commentary.`

const coverLetterPrompt = `You are a professional career writer. Draft a concise cover letter (under 300 words) for the candidate below applying to the job posting. Reference the candidate's matching skills concretely. Do not invent experience.

Candidate:
%s

Job posting: %s at %s
%s

Return only the cover letter text, no commentary.`

// Generator drafts tailored application documents via an LLM. It implements
// the agents.DocumentGenerator contract.
type Generator struct {
	client llm.Client
}

// New creates an LLM-backed document generator.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate drafts the resume and cover letter concurrently. Model failures
// are transient; the workflow retry policy handles them.
func (g *Generator) Generate(ctx context.Context, profile *types.UserProfile, job *types.Job) (types.Documents, error) {
	candidate := describeCandidate(profile)

	var resume, coverLetter string
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		prompt := fmt.Sprintf(resumePrompt, candidate, job.Title, job.Company, job.Description)
		text, err := g.client.GenerateContent(egCtx, prompt, llm.TierAdvanced)
		if err != nil {
			return errs.Transient("resume generation", err)
		}
		resume = strings.TrimSpace(text)
		return nil
	})

	eg.Go(func() error {
		prompt := fmt.Sprintf(coverLetterPrompt, candidate, job.Title, job.Company, job.Description)
		text, err := g.client.GenerateContent(egCtx, prompt, llm.TierAdvanced)
		if err != nil {
			return errs.Transient("cover letter generation", err)
		}
		coverLetter = strings.TrimSpace(text)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return types.Documents{}, err
	}

	docs := types.Documents{Resume: resume, CoverLetter: coverLetter}
	payload, err := json.Marshal(docs)
	if err != nil {
		return types.Documents{}, fmt.Errorf("failed to marshal documents: %w", err)
	}
	if err := schemas.ValidateDocuments(payload); err != nil {
		return types.Documents{}, errs.Incomplete("document generation", fmt.Sprintf("generated documents failed validation: %v", err))
	}

	return docs, nil
}

func describeCandidate(profile *types.UserProfile) string {
	var sb strings.Builder
	if profile.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", profile.Name)
	}
	if profile.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", profile.Email)
	}
	if profile.ExperienceYears > 0 {
		fmt.Fprintf(&sb, "Experience: %d years\n", profile.ExperienceYears)
	}
	if len(profile.Skills) > 0 {
		names := make([]string, 0, len(profile.Skills))
		for _, skill := range profile.Skills {
			names = append(names, skill.Name)
		}
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(names, ", "))
	}
	return sb.String()
}
