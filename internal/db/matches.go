package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-agent/internal/types"
)

// CreateMatch appends a match result. Rows are never updated: re-matching the
// same (user, job) pair after a profile or extraction change inserts a new row,
// preserving the scoring history.
func (db *DB) CreateMatch(ctx context.Context, match *types.MatchResult) error {
	matchedJSON, err := json.Marshal(match.MatchedSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal matched skills: %w", err)
	}
	missingJSON, err := json.Marshal(match.MissingSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal missing skills: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO matches (user_id, job_id, score, skill_overlap_ratio, semantic_similarity,
		                      matched_skills, missing_skills, rationale, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		match.UserID, match.JobID, match.Score, match.SkillOverlapRatio, match.SemanticSimilarity,
		matchedJSON, missingJSON, match.Rationale, match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create match for job %s: %w", match.JobID, err)
	}
	return nil
}

// ListMatches retrieves the latest match per job for a user, best score first.
// Matches scoring below minScore are omitted.
func (db *DB) ListMatches(ctx context.Context, userID string, minScore float64, limit int) ([]types.MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT user_id, job_id, score, skill_overlap_ratio, semantic_similarity,
		        matched_skills, missing_skills, rationale, created_at
		 FROM (
		     SELECT DISTINCT ON (job_id)
		            user_id, job_id, score, skill_overlap_ratio, semantic_similarity,
		            matched_skills, missing_skills, rationale, created_at
		     FROM matches WHERE user_id = $1
		     ORDER BY job_id, created_at DESC
		 ) latest
		 WHERE score >= $2
		 ORDER BY score DESC LIMIT $3`,
		userID, minScore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []types.MatchResult
	for rows.Next() {
		var match types.MatchResult
		var matchedJSON, missingJSON []byte
		if err := rows.Scan(&match.UserID, &match.JobID, &match.Score,
			&match.SkillOverlapRatio, &match.SemanticSimilarity,
			&matchedJSON, &missingJSON, &match.Rationale, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if matchedJSON != nil {
			_ = json.Unmarshal(matchedJSON, &match.MatchedSkills)
		}
		if missingJSON != nil {
			_ = json.Unmarshal(missingJSON, &match.MissingSkills)
		}
		matches = append(matches, match)
	}
	return matches, nil
}
