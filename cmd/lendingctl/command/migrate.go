package command

import (
	"fmt"

	"lendinghub/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// ConnectDB migrates on the way in
		db, err := database.ConnectDB(cfg, cfg.NewLogger())
		if err != nil {
			return err
		}
		defer database.Close(db)

		color.Green("✅ Schema is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseDriver != "postgres" {
			return fmt.Errorf("rollback needs postgres, %s schemas are created by AutoMigrate", cfg.DatabaseDriver)
		}

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.RollbackMigrations(db, rollbackSteps, cfg.NewLogger()); err != nil {
			return err
		}
		color.Green("✅ Rolled back %d migrations", rollbackSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
