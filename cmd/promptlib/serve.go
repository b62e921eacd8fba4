package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/promptlib-backend/internal/app"
)

var (
	serveHost    string
	servePort    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the prompt library HTTP API.

Routes:
  GET  /healthcheck
  GET  /metrics                                  (METRICS_ENABLED=true)
  POST /api/projects/:project_id/prompts
  GET  /api/projects/:project_id/prompts
  GET  /api/projects/:project_id/prompts/:id
  POST /api/projects/:project_id/prompts/:id/versions
  GET  /api/projects/:project_id/tags`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, app.Options{Migrate: serveMigrate})
		if err != nil {
			return err
		}
		defer a.Close()

		port := servePort
		if port == "" {
			port = a.Cfg.Port
		}
		a.Start()
		return a.Run(ctx, serveHost+":"+port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: $PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Run schema migrations before serving")
}
