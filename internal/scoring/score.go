// Package scoring computes candidate-job fit scores from skill overlap and
// semantic similarity. Scoring is pure: fixed inputs and weights always
// produce the same score.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// Default scoring parameters. Overlap is weighted above semantic similarity
// because it is verifiable and explainable; similarity rescues near-miss
// phrasing like "ML engineer" vs "machine learning engineer".
const (
	DefaultOverlapWeight  = 0.6
	DefaultSemanticWeight = 0.4
	DefaultMandatoryCap   = 0.5
)

// Weights configures the score combination. OverlapWeight and SemanticWeight
// must sum to 1. MandatoryCap bounds the score of any job with a mandatory
// skill the user lacks.
type Weights struct {
	OverlapWeight  float64 `json:"overlap_weight" validate:"gte=0,lte=1"`
	SemanticWeight float64 `json:"semantic_weight" validate:"gte=0,lte=1"`
	MandatoryCap   float64 `json:"mandatory_cap" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the default 0.6/0.4 weighting with a 0.5 cap.
func DefaultWeights() Weights {
	return Weights{
		OverlapWeight:  DefaultOverlapWeight,
		SemanticWeight: DefaultSemanticWeight,
		MandatoryCap:   DefaultMandatoryCap,
	}
}

// Validate checks weight invariants.
func (w Weights) Validate() error {
	if w.OverlapWeight < 0 || w.OverlapWeight > 1 {
		return errs.Config("overlap_weight", "must be in [0,1]")
	}
	if w.SemanticWeight < 0 || w.SemanticWeight > 1 {
		return errs.Config("semantic_weight", "must be in [0,1]")
	}
	if math.Abs(w.OverlapWeight+w.SemanticWeight-1.0) > 1e-9 {
		return errs.Config("overlap_weight", "overlap and semantic weights must sum to 1")
	}
	if w.MandatoryCap < 0 || w.MandatoryCap > 1 {
		return errs.Config("mandatory_cap", "must be in [0,1]")
	}
	return nil
}

// Result is the score breakdown for one user-job pair.
type Result struct {
	Score              float64
	SkillOverlapRatio  float64
	SemanticSimilarity float64
	MatchedSkills      []string
	MissingSkills      []string
	MissingMandatory   []string
	Capped             bool
}

// Rationale renders a short human-readable explanation of the score.
func (r Result) Rationale() string {
	if r.Capped {
		return fmt.Sprintf("score %.2f capped: missing mandatory skills %v (overlap %.2f, similarity %.2f)",
			r.Score, r.MissingMandatory, r.SkillOverlapRatio, r.SemanticSimilarity)
	}
	return fmt.Sprintf("score %.2f (overlap %.2f, similarity %.2f, matched %d/%d skills)",
		r.Score, r.SkillOverlapRatio, r.SemanticSimilarity, len(r.MatchedSkills), len(r.MatchedSkills)+len(r.MissingSkills))
}

// OverlapRatio computes |user ∩ job| / max(1, |job|) over normalized skill
// names. An empty job skill set yields 0: an unknown requirement is not a
// free pass.
func OverlapRatio(userSkills []types.Skill, jobSkills []string) float64 {
	if len(jobSkills) == 0 {
		return 0
	}
	userSet := types.SkillSet(userSkills)
	matched := 0
	for _, name := range jobSkills {
		if userSet[types.NormalizeSkillName(name)] {
			matched++
		}
	}
	return float64(matched) / float64(len(jobSkills))
}

// Score combines skill overlap and semantic similarity into a fit score in
// [0,1]. Semantic similarity outside [0,1] is clamped before weighting. If
// the job declares a mandatory skill absent from the user's set, the combined
// score is capped at w.MandatoryCap regardless of the weighted sum.
func Score(w Weights, user *types.UserProfile, job *types.Job, semanticSimilarity float64) Result {
	semantic := clamp01(semanticSimilarity)
	jobSkillNames := job.SkillNames()
	userSet := types.SkillSet(user.Skills)

	var matched, missing []string
	for _, name := range jobSkillNames {
		if userSet[name] {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	ratio := 0.0
	if len(jobSkillNames) > 0 {
		ratio = float64(len(matched)) / float64(len(jobSkillNames))
	}

	var missingMandatory []string
	for _, name := range job.MandatorySkills() {
		if !userSet[name] {
			missingMandatory = append(missingMandatory, name)
		}
	}
	sort.Strings(missingMandatory)

	score := w.OverlapWeight*ratio + w.SemanticWeight*semantic
	capped := false
	if len(missingMandatory) > 0 && score > w.MandatoryCap {
		score = w.MandatoryCap
		capped = true
	}

	return Result{
		Score:              clamp01(score),
		SkillOverlapRatio:  ratio,
		SemanticSimilarity: semantic,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		MissingMandatory:   missingMandatory,
		Capped:             capped,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
