package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/techikansh/Kanban-Board/internal/app/system/indexes"
	"github.com/techikansh/Kanban-Board/internal/app/system/validators"
)

func newEnsureIndexesCmd(app *App) *cobra.Command {
	var skipValidators bool

	cmd := &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create collections, validators and indexes (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withBackend(cmd.Context(), func(b Backend) error {
				if b.DB == nil {
					return errors.New("ensure-indexes requires a MongoDB backend")
				}
				if !skipValidators {
					if err := validators.EnsureAll(cmd.Context(), b.DB, app.Log); err != nil {
						return fmt.Errorf("validators: %w", err)
					}
				}
				if err := indexes.EnsureAll(cmd.Context(), b.DB, app.Log); err != nil {
					return fmt.Errorf("indexes: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema ensured")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&skipValidators, "skip-validators", false, "Only reconcile indexes")
	return cmd
}
