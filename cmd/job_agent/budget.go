package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/config"
)

var budgetCommand = &cobra.Command{
	Use:   "budget",
	Short: "Show the remaining application budget per rate-limit window",
	RunE:  showBudgetCmd,
}

var (
	budgetConfigPath  string
	budgetUserID      string
	budgetDatabaseURL string
)

func init() {
	budgetCommand.Flags().StringVar(&budgetConfigPath, "config", "", "Path to config.json file")
	budgetCommand.Flags().StringVarP(&budgetUserID, "user-id", "u", "", "User ID to show the budget for (required)")
	budgetCommand.Flags().StringVar(&budgetDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(budgetCommand)
}

func showBudgetCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if budgetUserID == "" {
		return fmt.Errorf("--user-id is required")
	}

	cfg, err := loadConfig(budgetConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = budgetDatabaseURL
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

	remaining, err := a.limiter.Remaining(ctx, budgetUserID)
	if err != nil {
		return err
	}

	a.printer.PrintRateBudget(remaining)
	return nil
}
