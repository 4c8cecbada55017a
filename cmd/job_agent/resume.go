package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/config"
)

var resumeCommand = &cobra.Command{
	Use:   "resume",
	Short: "Resume a checkpointed workflow run",
	Long:  "Continues an interrupted or deferred run from its last completed stage. Completed stages are never re-executed; their results come from the checkpoint.",
	RunE:  resumeWorkflowCmd,
}

var (
	resumeConfigPath  string
	resumeRunID       string
	resumeAutonomy    bool
	resumeAPIKey      string
	resumeDatabaseURL string
	resumeJobBoardURL string
	resumeVerbose     bool
	resumeDebug       bool
	resumeJSONLogs    bool
)

func init() {
	resumeCommand.Flags().StringVar(&resumeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	resumeCommand.Flags().StringVarP(&resumeRunID, "run-id", "r", "", "Run ID to resume (required)")
	resumeCommand.Flags().BoolVar(&resumeAutonomy, "autonomy", false, "Allow automatic submission of high-scoring applications")
	resumeCommand.Flags().StringVar(&resumeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	resumeCommand.Flags().StringVar(&resumeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	resumeCommand.Flags().StringVar(&resumeJobBoardURL, "job-board-url", "", "Job board API base URL (optional, defaults to JOB_BOARD_URL env var)")
	resumeCommand.Flags().BoolVarP(&resumeVerbose, "verbose", "v", false, "Print run summary boxes")
	resumeCommand.Flags().BoolVar(&resumeDebug, "debug", false, "Enable debug logging")
	resumeCommand.Flags().BoolVar(&resumeJSONLogs, "json-logs", false, "Emit JSON logs (for scheduled runs)")

	rootCmd.AddCommand(resumeCommand)
}

func resumeWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if resumeRunID == "" {
		return fmt.Errorf("--run-id is required")
	}

	cfg, err := loadConfig(resumeConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = resumeAPIKey
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = resumeDatabaseURL
		}
		if cmd.Flags().Changed("job-board-url") {
			cfg.JobBoardURL = resumeJobBoardURL
		}
		if cmd.Flags().Changed("autonomy") {
			cfg.Autonomy = resumeAutonomy
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = resumeVerbose
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = resumeDebug
		}
	})
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, resumeJSONLogs)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.buildEngine(ctx); err != nil {
		return err
	}

	final, runErr := a.engine.Resume(ctx, resumeRunID)

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
