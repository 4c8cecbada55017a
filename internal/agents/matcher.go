package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/scoring"
	"github.com/jonathan/job-agent/internal/types"
)

// maxConcurrentScores bounds the similarity fan-out so a large search result
// does not flood a remote embedding service.
const maxConcurrentScores = 8

// Matcher scores the user against every extracted job and stores the match
// results in the graph. Matches below the configured floor are dropped before
// document generation.
type Matcher struct {
	memory     GraphMemory
	similarity Similarity
	weights    scoring.Weights
	minScore   float64
	now        func() time.Time
	log        *zap.Logger
}

// NewMatcher creates the matcher step.
func NewMatcher(memory GraphMemory, similarity Similarity, weights scoring.Weights, minScore float64, log *zap.Logger) *Matcher {
	return &Matcher{
		memory:     memory,
		similarity: similarity,
		weights:    weights,
		minScore:   minScore,
		now:        time.Now,
		log:        log,
	}
}

// Name implements Step.
func (m *Matcher) Name() string { return "matcher" }

// Run computes fit scores and fills the Matches namespace, best match first.
// For caller-selected jobs that skipped search and extraction, the job and
// its skills are read from the graph.
func (m *Matcher) Run(ctx context.Context, state *types.RunState) error {
	profile, err := m.memory.GetUserProfile(ctx, state.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("user profile not found: %s", state.UserID)
	}

	candidates, err := m.candidates(ctx, state)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errs.Incomplete("matching", "no jobs with extracted requirements to match")
	}

	profileText := profileText(profile)

	var mu sync.Mutex
	var matches []types.MatchResult

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScores)
	for _, candidate := range candidates {
		job := candidate
		g.Go(func() error {
			semantic, err := m.similarity.Similarity(gCtx, profileText, job.Description)
			if err != nil {
				return errs.Transient(fmt.Sprintf("similarity for job %s", job.ID), err)
			}

			result := scoring.Score(m.weights, profile, &job, semantic)
			if result.Score < m.minScore && job.ID != state.SelectedJobID {
				return nil
			}

			match := types.MatchResult{
				UserID:             state.UserID,
				JobID:              job.ID,
				Score:              result.Score,
				SkillOverlapRatio:  result.SkillOverlapRatio,
				SemanticSimilarity: result.SemanticSimilarity,
				MatchedSkills:      result.MatchedSkills,
				MissingSkills:      result.MissingSkills,
				Rationale:          result.Rationale(),
				CreatedAt:          m.now().UTC(),
			}

			mu.Lock()
			matches = append(matches, match)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	for i := range matches {
		if err := m.memory.CreateMatch(ctx, &matches[i]); err != nil {
			return fmt.Errorf("failed to store match for job %s: %w", matches[i].JobID, err)
		}
	}

	state.Matches = matches
	m.log.Info("matcher scored jobs",
		zap.String("run_id", state.RunID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)))
	return nil
}

// candidates assembles the jobs to score, each carrying its effective skill
// requirements: the extraction when present, otherwise the graph's linked
// skills.
func (m *Matcher) candidates(ctx context.Context, state *types.RunState) ([]types.Job, error) {
	if state.SelectedJobID != "" && len(state.Jobs) == 0 {
		job, err := m.memory.GetJob(ctx, state.SelectedJobID)
		if err != nil {
			return nil, fmt.Errorf("failed to load selected job: %w", err)
		}
		if job == nil {
			return nil, fmt.Errorf("selected job not found in graph: %s", state.SelectedJobID)
		}
		return []types.Job{*job}, nil
	}

	var candidates []types.Job
	for _, job := range state.Jobs {
		extraction, ok := state.Extracted[job.ID]
		if ok && extraction.Complete() {
			job.Skills = extraction.Skills
		}
		if len(job.Skills) == 0 {
			// Nothing verifiable to match against; skip rather than score
			// on similarity alone.
			continue
		}
		candidates = append(candidates, job)
	}
	return candidates, nil
}

func profileText(profile *types.UserProfile) string {
	var sb strings.Builder
	for _, skill := range profile.Skills {
		sb.WriteString(skill.Name)
		sb.WriteString(" ")
	}
	if profile.ExperienceYears > 0 {
		fmt.Fprintf(&sb, "%d years of experience", profile.ExperienceYears)
	}
	return strings.TrimSpace(sb.String())
}
