package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/types"
	"github.com/jonathan/job-agent/internal/workflow"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the application workflow end-to-end",
	Long: `Orchestrates a full run: search -> extract -> match -> generate documents -> decide -> track.

With --job-id the run skips search and extraction and enters at the match stage for that job. Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runWorkflowCmd,
}

var (
	runConfigPath     string
	runUserID         string
	runKeywords       string
	runLocation       string
	runEmploymentType string
	runJobID          string
	runAutonomy       bool
	runMaxResults     int
	runMinScore       float64
	runAPIKey         string
	runDatabaseURL    string
	runJobBoardURL    string
	runVerbose        bool
	runDebug          bool
	runJSONLogs       bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runUserID, "user-id", "u", "", "User ID to run for (required)")
	runCommand.Flags().StringVarP(&runKeywords, "keywords", "k", "", "Search keywords (required unless --job-id is given)")
	runCommand.Flags().StringVar(&runLocation, "location", "", "Preferred location filter")
	runCommand.Flags().StringVar(&runEmploymentType, "employment-type", "", "Employment type filter (full_time, part_time, contract)")
	runCommand.Flags().StringVar(&runJobID, "job-id", "", "Run against one already-known job, skipping search")
	runCommand.Flags().BoolVar(&runAutonomy, "autonomy", false, "Allow automatic submission of high-scoring applications")
	runCommand.Flags().IntVar(&runMaxResults, "max-results", 0, "Maximum jobs to pull from the board")
	runCommand.Flags().Float64Var(&runMinScore, "min-score", 0, "Minimum match score to keep")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print run summary boxes")
	runCommand.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
	runCommand.Flags().BoolVar(&runJSONLogs, "json-logs", false, "Emit JSON logs (for scheduled runs)")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().StringVar(&runJobBoardURL, "job-board-url", "", "Job board API base URL (optional, defaults to JOB_BOARD_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(runConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = runAPIKey
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = runDatabaseURL
		}
		if cmd.Flags().Changed("job-board-url") {
			cfg.JobBoardURL = runJobBoardURL
		}
		if cmd.Flags().Changed("autonomy") {
			cfg.Autonomy = runAutonomy
		}
		if cmd.Flags().Changed("max-results") {
			cfg.MaxResults = runMaxResults
		}
		if cmd.Flags().Changed("min-score") {
			cfg.MinMatchScore = runMinScore
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = runVerbose
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = runDebug
		}
	})
	if err != nil {
		return err
	}

	if runUserID == "" {
		return fmt.Errorf("--user-id is required")
	}
	if runKeywords == "" && runJobID == "" {
		return fmt.Errorf("either --keywords or --job-id must be provided")
	}

	a, err := buildApp(ctx, cfg, runJSONLogs)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.buildEngine(ctx); err != nil {
		return err
	}

	state := &types.RunState{
		RunID:          uuid.NewString(),
		UserID:         runUserID,
		Keywords:       runKeywords,
		Location:       runLocation,
		EmploymentType: runEmploymentType,
		SelectedJobID:  runJobID,
	}

	final, runErr := a.engine.Run(ctx, state)

	if cfg.Verbose && final != nil {
		a.printer.PrintMatches(final.Matches)
		a.printer.PrintRunState(final)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Run %s finished: %s\n", final.RunID, finalOutcome(final))
	return nil
}

// finalOutcome renders the one-line result of a completed run.
func finalOutcome(state *types.RunState) string {
	switch {
	case state.Failure != nil:
		return fmt.Sprintf("failed in %s", state.Failure.Stage)
	case state.Decision == "":
		return string(workflow.RunStatusDeferred)
	case state.ApplicationID != "":
		return fmt.Sprintf("%s (application %s)", state.Decision, state.ApplicationID)
	default:
		return state.Decision
	}
}
