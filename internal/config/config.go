// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/ratelimit"
	"github.com/jonathan/job-agent/internal/scoring"
	"github.com/jonathan/job-agent/internal/workflow"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty" validate:"omitempty,url|startswith=postgres://|startswith=postgresql://"`
	JobBoardURL string `json:"job_board_url,omitempty" validate:"omitempty,url"`
	APIKey      string `json:"api_key,omitempty"` // Gemini API key

	// Autonomy
	Autonomy           bool    `json:"autonomy,omitempty"`
	AutoApplyThreshold float64 `json:"auto_apply_threshold,omitempty" validate:"gte=0,lte=1"`
	ApprovalThreshold  float64 `json:"approval_threshold,omitempty" validate:"gte=0,lte=1"`

	// Scoring
	OverlapWeight  float64 `json:"overlap_weight,omitempty" validate:"gte=0,lte=1"`
	SemanticWeight float64 `json:"semantic_weight,omitempty" validate:"gte=0,lte=1"`
	MandatoryCap   float64 `json:"mandatory_cap,omitempty" validate:"gte=0,lte=1"`
	MinMatchScore  float64 `json:"min_match_score,omitempty" validate:"gte=0,lte=1"`

	// Search
	MaxResults int `json:"max_results,omitempty" validate:"gte=0"`

	// Rate limits
	ApplicationsPerHour int `json:"applications_per_hour,omitempty" validate:"gte=0"`
	ApplicationsPerDay  int `json:"applications_per_day,omitempty" validate:"gte=0"`
	ApplicationsPerWeek int `json:"applications_per_week,omitempty" validate:"gte=0"`

	// Workflow
	MaxRetries          uint `json:"max_retries,omitempty"`
	StageTimeoutSeconds int  `json:"stage_timeout_seconds,omitempty" validate:"gte=0"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
	Debug   bool `json:"debug,omitempty"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are checked by the commands after merging, since flags and environment
// variables can still supply them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.AutoApplyThreshold != 0 && c.ApprovalThreshold != 0 &&
		c.AutoApplyThreshold < c.ApprovalThreshold {
		return fmt.Errorf("config error: 'auto_apply_threshold' must be >= 'approval_threshold'")
	}

	if c.OverlapWeight != 0 || c.SemanticWeight != 0 {
		sum := c.OverlapWeight + c.SemanticWeight
		if sum < 1-1e-9 || sum > 1+1e-9 {
			return fmt.Errorf("config error: 'overlap_weight' and 'semantic_weight' must sum to 1")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.JobBoardURL == "" {
		result.JobBoardURL = defaults.JobBoardURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.AutoApplyThreshold == 0 {
		result.AutoApplyThreshold = defaults.AutoApplyThreshold
	}
	if result.ApprovalThreshold == 0 {
		result.ApprovalThreshold = defaults.ApprovalThreshold
	}
	if result.OverlapWeight == 0 {
		result.OverlapWeight = defaults.OverlapWeight
	}
	if result.SemanticWeight == 0 {
		result.SemanticWeight = defaults.SemanticWeight
	}
	if result.MandatoryCap == 0 {
		result.MandatoryCap = defaults.MandatoryCap
	}
	if result.MinMatchScore == 0 {
		result.MinMatchScore = defaults.MinMatchScore
	}

	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}
	if result.ApplicationsPerHour == 0 {
		result.ApplicationsPerHour = defaults.ApplicationsPerHour
	}
	if result.ApplicationsPerDay == 0 {
		result.ApplicationsPerDay = defaults.ApplicationsPerDay
	}
	if result.ApplicationsPerWeek == 0 {
		result.ApplicationsPerWeek = defaults.ApplicationsPerWeek
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.StageTimeoutSeconds == 0 {
		result.StageTimeoutSeconds = defaults.StageTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	weights := scoring.DefaultWeights()
	thresholds := decision.DefaultThresholds()
	limits := ratelimit.DefaultLimits()
	wf := workflow.DefaultConfig()
	return Config{
		AutoApplyThreshold:  thresholds.AutoApply,
		ApprovalThreshold:   thresholds.Approval,
		OverlapWeight:       weights.OverlapWeight,
		SemanticWeight:      weights.SemanticWeight,
		MandatoryCap:        weights.MandatoryCap,
		MinMatchScore:       0.6,
		MaxResults:          50,
		ApplicationsPerHour: limits.PerHour,
		ApplicationsPerDay:  limits.PerDay,
		ApplicationsPerWeek: limits.PerWeek,
		MaxRetries:          wf.MaxRetries,
		StageTimeoutSeconds: int(wf.StageTimeout / time.Second),
	}
}

// FromEnv fills connection fields from the environment when unset:
// DATABASE_URL, JOB_BOARD_URL, and GEMINI_API_KEY.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.JobBoardURL == "" {
		c.JobBoardURL = os.Getenv("JOB_BOARD_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Thresholds returns the decision thresholds carried by the config.
func (c *Config) Thresholds() decision.Thresholds {
	return decision.Thresholds{AutoApply: c.AutoApplyThreshold, Approval: c.ApprovalThreshold}
}

// Weights returns the scoring weights carried by the config.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		OverlapWeight:  c.OverlapWeight,
		SemanticWeight: c.SemanticWeight,
		MandatoryCap:   c.MandatoryCap,
	}
}

// Limits returns the application rate limits carried by the config.
func (c *Config) Limits() ratelimit.Limits {
	return ratelimit.Limits{
		PerHour: c.ApplicationsPerHour,
		PerDay:  c.ApplicationsPerDay,
		PerWeek: c.ApplicationsPerWeek,
	}
}

// Workflow returns the workflow engine config carried by the config.
func (c *Config) Workflow() workflow.Config {
	wf := workflow.DefaultConfig()
	if c.MaxRetries > 0 {
		wf.MaxRetries = c.MaxRetries
	}
	if c.StageTimeoutSeconds > 0 {
		wf.StageTimeout = time.Duration(c.StageTimeoutSeconds) * time.Second
	}
	return wf
}
