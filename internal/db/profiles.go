package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/types"
)

// GetUserProfile retrieves a user profile by ID, nil when absent.
func (db *DB) GetUserProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	var profile types.UserProfile
	var skillsJSON, preferencesJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, experience_years, skills, preferences
		 FROM user_profiles WHERE id = $1`,
		userID,
	).Scan(&profile.ID, &profile.Name, &profile.Email, &profile.ExperienceYears, &skillsJSON, &preferencesJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &profile.Skills)
	}
	if preferencesJSON != nil {
		_ = json.Unmarshal(preferencesJSON, &profile.Preferences)
	}

	return &profile, nil
}

// UpsertUserProfile creates or replaces a user profile.
func (db *DB) UpsertUserProfile(ctx context.Context, profile *types.UserProfile) error {
	skillsJSON, err := json.Marshal(profile.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	preferencesJSON, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_profiles (id, name, email, experience_years, skills, preferences)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, email = EXCLUDED.email,
		     experience_years = EXCLUDED.experience_years,
		     skills = EXCLUDED.skills, preferences = EXCLUDED.preferences,
		     updated_at = NOW()`,
		profile.ID, profile.Name, profile.Email, profile.ExperienceYears, skillsJSON, preferencesJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}
