package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/promptlib-backend/internal/app"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
)

var (
	versionsProject int64
	versionsPrompt  int64
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Print a prompt's versions as JSON",
	Long: `Print every version of one prompt, in creation order, with its variables,
messages and tags.

Examples:
  promptlib versions --project 5 --prompt 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		dbc := dbctx.Context{Ctx: ctx}
		if _, err := a.Repos.Prompt.GetByID(dbc, versionsProject, versionsPrompt); err != nil {
			return fmt.Errorf("prompt %d in project %d: %w", versionsPrompt, versionsProject, err)
		}
		versions, err := a.Repos.PromptVersion.GetByPromptID(dbc, versionsPrompt)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	},
}

func init() {
	versionsCmd.Flags().Int64Var(&versionsProject, "project", 0, "Project id owning the prompt")
	versionsCmd.Flags().Int64Var(&versionsPrompt, "prompt", 0, "Prompt id")
	_ = versionsCmd.MarkFlagRequired("project")
	_ = versionsCmd.MarkFlagRequired("prompt")
}
