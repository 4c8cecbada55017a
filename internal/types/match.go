package types

import "time"

// MatchResult is one scoring pass over a user-job pairing. A stored result is
// immutable: re-matching after the profile or the extracted requirements change
// appends a new result, so the scoring history stays available for analytics.
type MatchResult struct {
	UserID             string    `json:"user_id"`
	JobID              string    `json:"job_id"`
	Score              float64   `json:"score"`
	SkillOverlapRatio  float64   `json:"skill_overlap_ratio"`
	SemanticSimilarity float64   `json:"semantic_similarity"`
	MatchedSkills      []string  `json:"matched_skills,omitempty"`
	MissingSkills      []string  `json:"missing_skills,omitempty"`
	Rationale          string    `json:"rationale,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
