package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/types"
)

var applicationsCommand = &cobra.Command{
	Use:   "applications",
	Short: "List and update tracked applications",
	RunE:  listApplicationsCmd,
}

var updateApplicationCommand = &cobra.Command{
	Use:   "update",
	Short: "Transition an application to a new status",
	Long:  "Moves a tracked application through its lifecycle (PENDING -> SUBMITTED -> INTERVIEW -> OFFER/REJECTED, WITHDRAWN from any non-terminal status). Illegal transitions are rejected.",
	RunE:  updateApplicationCmd,
}

var (
	appsConfigPath  string
	appsUserID      string
	appsLimit       int
	appsDatabaseURL string

	updateAppID  string
	updateStatus string
)

func init() {
	applicationsCommand.Flags().StringVar(&appsConfigPath, "config", "", "Path to config.json file")
	applicationsCommand.Flags().StringVarP(&appsUserID, "user-id", "u", "", "User ID to list applications for (required)")
	applicationsCommand.Flags().IntVar(&appsLimit, "limit", 20, "Maximum applications to show")
	applicationsCommand.Flags().StringVar(&appsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	updateApplicationCommand.Flags().StringVar(&appsConfigPath, "config", "", "Path to config.json file")
	updateApplicationCommand.Flags().StringVar(&updateAppID, "id", "", "Application ID (required)")
	updateApplicationCommand.Flags().StringVar(&updateStatus, "status", "", "New status (required)")
	updateApplicationCommand.Flags().StringVar(&appsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	applicationsCommand.AddCommand(updateApplicationCommand)
	rootCmd.AddCommand(applicationsCommand)
}

func openDB(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(appsConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = appsDatabaseURL
		}
	})
	if err != nil {
		return nil, err
	}
	return buildApp(context.Background(), cfg, false)
}

func listApplicationsCmd(cmd *cobra.Command, _ []string) error {
	if appsUserID == "" {
		return fmt.Errorf("--user-id is required")
	}

	a, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	apps, err := a.db.ListApplications(context.Background(), appsUserID, appsLimit)
	if err != nil {
		return err
	}

	a.printer.PrintApplications(apps)
	return nil
}

func updateApplicationCmd(cmd *cobra.Command, _ []string) error {
	if updateAppID == "" {
		return fmt.Errorf("--id is required")
	}
	status := types.ApplicationStatus(updateStatus)
	if !types.ValidStatus(status) {
		return fmt.Errorf("unknown status %q", updateStatus)
	}

	a, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.UpdateApplicationStatus(context.Background(), updateAppID, status, time.Now().UTC()); err != nil {
		return err
	}

	fmt.Printf("Application %s moved to %s\n", updateAppID, status)
	return nil
}
