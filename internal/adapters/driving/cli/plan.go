package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a sync would do without doing it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		plan, err := app.sync.Plan(ctx)
		if err != nil {
			return err
		}
		printPlan(cmd, plan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

// printPlan lists every non-skip item and a one-line summary.
func printPlan(cmd *cobra.Command, plan domain.Plan) {
	for _, item := range plan.Items {
		switch item.Action {
		case domain.ActionSkip:
			// Unchanged documents are only shown in verbose logs.
		case domain.ActionDelete:
			name := item.Path
			if name == "" {
				name = item.Identity
			}
			cmd.Printf("%-7s %s\n", item.Action, name)
		default:
			cmd.Printf("%-7s %s\n", item.Action, item.Path)
		}
	}
	cmd.Printf("Plan: %d insert, %d update, %d delete, %d unchanged\n",
		plan.Count(domain.ActionInsert),
		plan.Count(domain.ActionUpdate),
		plan.Count(domain.ActionDelete),
		plan.Count(domain.ActionSkip))
}
