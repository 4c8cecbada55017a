package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/config"
)

var matchesCommand = &cobra.Command{
	Use:   "matches",
	Short: "List a user's stored match results",
	RunE:  listMatchesCmd,
}

var (
	matchesConfigPath  string
	matchesUserID      string
	matchesLimit       int
	matchesMinScore    float64
	matchesDatabaseURL string
)

func init() {
	matchesCommand.Flags().StringVar(&matchesConfigPath, "config", "", "Path to config.json file")
	matchesCommand.Flags().StringVarP(&matchesUserID, "user-id", "u", "", "User ID to list matches for (required)")
	matchesCommand.Flags().IntVar(&matchesLimit, "limit", 20, "Maximum matches to show")
	matchesCommand.Flags().Float64Var(&matchesMinScore, "min-score", 0, "Hide matches scoring below this value")
	matchesCommand.Flags().StringVar(&matchesDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(matchesCommand)
}

func listMatchesCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if matchesUserID == "" {
		return fmt.Errorf("--user-id is required")
	}

	cfg, err := loadConfig(matchesConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = matchesDatabaseURL
		}
	})
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	matches, err := a.db.ListMatches(ctx, matchesUserID, matchesMinScore, matchesLimit)
	if err != nil {
		return err
	}

	a.printer.PrintMatches(matches)
	return nil
}
