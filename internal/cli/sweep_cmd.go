package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/techikansh/Kanban-Board/internal/app/system/cascade"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

func newSweepOrphansCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep-orphans",
		Short: "Delete tasks whose project no longer exists",
		Long: "Finishes cascade deletes that removed a project but failed before " +
			"its tasks were deleted. Use --dry-run to only list affected projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeouts.Sweep())
			defer cancel()

			return app.withBackend(ctx, func(b Backend) error {
				d := cascade.New(b.Stores.Projects, b.Stores.Tasks, app.Log)
				rep, err := d.SweepOrphans(ctx, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, id := range rep.Orphans {
					fmt.Fprintf(out, "orphaned project %s\n", id.Hex())
				}
				if dryRun {
					fmt.Fprintf(out, "%d orphaned project(s); dry run, nothing deleted\n", len(rep.Orphans))
					return nil
				}
				fmt.Fprintf(out, "%d orphaned project(s); %d task(s) deleted\n", len(rep.Orphans), rep.TasksDeleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List orphans without deleting")
	return cmd
}
