package main

import (
	"github.com/spf13/cobra"

	"course-scheduler/backend/pkg/database"
)

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return database.RunMigrations(sqlDB, a.logger)
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return database.RollbackMigrations(sqlDB, rollbackSteps, a.logger)
}
