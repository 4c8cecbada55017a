package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-agent/internal/types"
)

// UpsertJob creates or refreshes a job posting. Re-discovering a job updates
// its mutable fields instead of duplicating the node.
func (db *DB) UpsertJob(ctx context.Context, job *types.Job) error {
	var postedAt *time.Time
	if !job.PostedAt.IsZero() {
		postedAt = &job.PostedAt
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, employment_type, description, url, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title, company = EXCLUDED.company,
		     location = EXCLUDED.location, employment_type = EXCLUDED.employment_type,
		     description = EXCLUDED.description, url = EXCLUDED.url,
		     posted_at = EXCLUDED.posted_at, updated_at = NOW()`,
		job.ID, job.Title, job.Company, job.Location, job.EmploymentType,
		job.Description, job.URL, postedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", job.ID, err)
	}

	if len(job.Skills) > 0 {
		if err := db.LinkJobSkills(ctx, job.ID, job.Skills); err != nil {
			return err
		}
	}
	return nil
}

// GetJob retrieves a job with its linked skills, nil when absent.
func (db *DB) GetJob(ctx context.Context, jobID string) (*types.Job, error) {
	var job types.Job
	var postedAt *time.Time

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, location, employment_type, description, url, posted_at
		 FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.EmploymentType,
		&job.Description, &job.URL, &postedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}
	if postedAt != nil {
		job.PostedAt = *postedAt
	}

	rows, err := db.pool.Query(ctx,
		`SELECT name, level, mandatory FROM job_skills WHERE job_id = $1 ORDER BY name`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills for job %s: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var skill types.JobSkill
		if err := rows.Scan(&skill.Name, &skill.Level, &skill.Mandatory); err != nil {
			return nil, fmt.Errorf("failed to scan job skill: %w", err)
		}
		job.Skills = append(job.Skills, skill)
	}

	return &job, nil
}

// LinkJobSkills attaches extracted skills to a job. Linking is idempotent per
// (job, skill); re-extraction refreshes level and mandatory flags.
func (db *DB) LinkJobSkills(ctx context.Context, jobID string, skills []types.JobSkill) error {
	for _, skill := range skills {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO job_skills (job_id, name, level, mandatory)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (job_id, name) DO UPDATE
			 SET level = EXCLUDED.level, mandatory = EXCLUDED.mandatory`,
			jobID, types.NormalizeSkillName(skill.Name), skill.Level, skill.Mandatory,
		)
		if err != nil {
			return fmt.Errorf("failed to link skill %s to job %s: %w", skill.Name, jobID, err)
		}
	}
	return nil
}
