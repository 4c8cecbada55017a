package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-agent/internal/agents"
	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/decision"
	"github.com/jonathan/job-agent/internal/docgen"
	"github.com/jonathan/job-agent/internal/embedding"
	"github.com/jonathan/job-agent/internal/extraction"
	"github.com/jonathan/job-agent/internal/jobsource"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/logger"
	"github.com/jonathan/job-agent/internal/observability"
	"github.com/jonathan/job-agent/internal/ratelimit"
	"github.com/jonathan/job-agent/internal/workflow"
)

const jobBoardTimeout = 30 * time.Second

// app holds the wired components behind one CLI invocation.
type app struct {
	cfg     config.Config
	db      *db.DB
	llm     llm.Client
	limiter *ratelimit.Limiter
	engine  *workflow.Engine
	log     *zap.Logger
	printer *observability.Printer
}

// loadConfig builds the effective configuration: config file values, then
// environment variables, then built-in defaults. Flag overrides are applied
// by the command before calling this.
func loadConfig(configPath string, apply func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if apply != nil {
		apply(&cfg)
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildApp connects the database and wires every component the workflow
// needs. Callers must Close the returned app.
func buildApp(ctx context.Context, cfg config.Config, jsonLogs bool) (*app, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	log, err := logger.New(jsonLogs, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		db:      database,
		log:     log,
		printer: observability.NewPrinter(os.Stdout),
	}
	a.limiter = ratelimit.New(database, cfg.Limits())
	return a, nil
}

// buildEngine wires the agent steps and the workflow engine. It needs an LLM
// client, so the API key must be configured.
func (a *app) buildEngine(ctx context.Context) error {
	if a.cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if a.cfg.JobBoardURL == "" {
		return fmt.Errorf("JOB_BOARD_URL environment variable or --job-board-url flag is required")
	}

	weights := a.cfg.Weights()
	if err := weights.Validate(); err != nil {
		return err
	}

	decider, err := decision.New(a.cfg.Thresholds(), a.limiter)
	if err != nil {
		return err
	}

	llmClient, err := llm.NewClient(ctx, nil, a.cfg.APIKey)
	if err != nil {
		return err
	}
	a.llm = llmClient

	board := jobsource.NewClient(a.cfg.JobBoardURL, jobBoardTimeout)
	similarity := embedding.NewLexical()

	steps := workflow.Steps{
		Scout:     agents.NewScout(board, a.db, a.cfg.MaxResults, a.log),
		Extractor: agents.NewExtractor(extraction.New(llmClient), a.db, a.log),
		Matcher:   agents.NewMatcher(a.db, similarity, weights, a.cfg.MinMatchScore, a.log),
		Writer:    agents.NewWriter(docgen.New(llmClient), a.db, a.log),
		Decider:   agents.NewDecider(decider, a.cfg.Autonomy, a.log),
		Tracker:   agents.NewTracker(a.db, a.limiter, a.log),
	}

	a.engine = workflow.New(steps, a.db, a.db, a.cfg.Workflow(), a.log)
	return nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
