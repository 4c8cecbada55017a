package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/types"
)

func userWithSkills(names ...string) *types.UserProfile {
	profile := &types.UserProfile{ID: "user-1"}
	for _, name := range names {
		profile.Skills = append(profile.Skills, types.Skill{Name: name})
	}
	return profile
}

func jobWithSkills(skills ...types.JobSkill) *types.Job {
	return &types.Job{ID: "job-1", Title: "Engineer", Company: "Acme", Skills: skills}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name       string
		userSkills []string
		jobSkills  []string
		want       float64
	}{
		{
			name:       "full overlap",
			userSkills: []string{"go", "postgresql"},
			jobSkills:  []string{"go", "postgresql"},
			want:       1.0,
		},
		{
			name:       "half overlap",
			userSkills: []string{"go"},
			jobSkills:  []string{"go", "rust"},
			want:       0.5,
		},
		{
			name:       "no overlap",
			userSkills: []string{"python"},
			jobSkills:  []string{"go", "rust"},
			want:       0.0,
		},
		{
			name:       "empty job skills yield zero",
			userSkills: []string{"go"},
			jobSkills:  nil,
			want:       0.0,
		},
		{
			name:       "aliases count as overlap",
			userSkills: []string{"golang", "k8s"},
			jobSkills:  []string{"go", "kubernetes"},
			want:       1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user []types.Skill
			for _, name := range tt.userSkills {
				user = append(user, types.Skill{Name: name})
			}
			assert.InDelta(t, tt.want, OverlapRatio(user, tt.jobSkills), 1e-9)
		})
	}
}

func TestScore_WeightedCombination(t *testing.T) {
	user := userWithSkills("go", "postgresql")
	job := jobWithSkills(
		types.JobSkill{Name: "go"},
		types.JobSkill{Name: "postgresql"},
		types.JobSkill{Name: "kubernetes"},
		types.JobSkill{Name: "terraform"},
	)

	result := Score(DefaultWeights(), user, job, 0.8)

	// overlap 2/4 = 0.5, score = 0.6*0.5 + 0.4*0.8 = 0.62
	assert.InDelta(t, 0.5, result.SkillOverlapRatio, 1e-9)
	assert.InDelta(t, 0.62, result.Score, 1e-9)
	assert.Equal(t, []string{"go", "postgresql"}, result.MatchedSkills)
	assert.Equal(t, []string{"kubernetes", "terraform"}, result.MissingSkills)
	assert.False(t, result.Capped)
}

func TestScore_MissingMandatoryCapsScore(t *testing.T) {
	user := userWithSkills("go")
	job := jobWithSkills(
		types.JobSkill{Name: "go"},
		types.JobSkill{Name: "rust", Mandatory: true},
	)

	// Even perfect semantic similarity cannot push past the cap.
	result := Score(DefaultWeights(), user, job, 1.0)

	assert.True(t, result.Capped)
	assert.InDelta(t, DefaultMandatoryCap, result.Score, 1e-9)
	assert.Equal(t, []string{"rust"}, result.MissingMandatory)
}

func TestScore_MandatorySkillPresentNotCapped(t *testing.T) {
	user := userWithSkills("go", "rust")
	job := jobWithSkills(
		types.JobSkill{Name: "go"},
		types.JobSkill{Name: "rust", Mandatory: true},
	)

	result := Score(DefaultWeights(), user, job, 0.9)

	assert.False(t, result.Capped)
	assert.InDelta(t, 0.6*1.0+0.4*0.9, result.Score, 1e-9)
}

func TestScore_SemanticClamped(t *testing.T) {
	user := userWithSkills("go")
	job := jobWithSkills(types.JobSkill{Name: "go"})

	high := Score(DefaultWeights(), user, job, 1.7)
	assert.InDelta(t, 1.0, high.SemanticSimilarity, 1e-9)
	assert.LessOrEqual(t, high.Score, 1.0)

	low := Score(DefaultWeights(), user, job, -0.3)
	assert.InDelta(t, 0.0, low.SemanticSimilarity, 1e-9)
	assert.GreaterOrEqual(t, low.Score, 0.0)
}

func TestScore_Deterministic(t *testing.T) {
	user := userWithSkills("go", "kubernetes")
	job := jobWithSkills(
		types.JobSkill{Name: "go"},
		types.JobSkill{Name: "aws", Mandatory: true},
	)

	first := Score(DefaultWeights(), user, job, 0.73)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(DefaultWeights(), user, job, 0.73))
	}
}

func TestScore_AutoApplyScenario(t *testing.T) {
	// High overlap plus high similarity lands above the 0.90 auto-apply line.
	user := userWithSkills("go", "postgresql", "kubernetes")
	job := jobWithSkills(
		types.JobSkill{Name: "go", Mandatory: true},
		types.JobSkill{Name: "postgresql"},
		types.JobSkill{Name: "kubernetes"},
	)

	result := Score(DefaultWeights(), user, job, 0.92)
	require.False(t, result.Capped)
	assert.GreaterOrEqual(t, result.Score, 0.90)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	bad := Weights{OverlapWeight: 0.7, SemanticWeight: 0.4, MandatoryCap: 0.5}
	assert.Error(t, bad.Validate())

	negative := Weights{OverlapWeight: -0.1, SemanticWeight: 1.1, MandatoryCap: 0.5}
	assert.Error(t, negative.Validate())
}

func TestResult_Rationale(t *testing.T) {
	user := userWithSkills("go")
	job := jobWithSkills(
		types.JobSkill{Name: "go"},
		types.JobSkill{Name: "rust", Mandatory: true},
	)

	capped := Score(DefaultWeights(), user, job, 1.0)
	assert.Contains(t, capped.Rationale(), "capped")
	assert.Contains(t, capped.Rationale(), "rust")

	clean := Score(DefaultWeights(), user, jobWithSkills(types.JobSkill{Name: "go"}), 0.5)
	assert.Contains(t, clean.Rationale(), "matched 1/1")
}
