package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/promptlib-backend/internal/app"
	dbsvc "github.com/yungbote/promptlib-backend/internal/data/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := app.NewLogger()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		store, err := dbsvc.Open(log)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.AutoMigrateAll(); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		log.Info("Schema up to date", "models", len(dbsvc.Models()))
		return nil
	},
}
