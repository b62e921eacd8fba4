package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptlib",
	Short: "Prompt library backend",
	Long: `promptlib stores versioned prompts with their variables, messages and
project-scoped tags, and serves them over an authenticated HTTP API.

Configuration is read from the environment (DB_DRIVER, POSTGRES_*, SQLITE_PATH,
REDIS_ADDR, IDENTITY_BASE_URL, JWT_SECRET_KEY, METRICS_ENABLED, OTEL_ENABLED).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionsCmd)
}
