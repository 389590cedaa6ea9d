package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knotara/storefront/internal/dal"
)

// NewInitCommand creates the init command. It boots the stack, which either
// restores the persisted image or bootstraps a fresh database, then reports
// what it found.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap or restore the store database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Degraded {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: slot store unavailable, data will not survive this process")
			}

			products := app.Products.All(dal.Options{})
			fmt.Fprintf(cmd.OutOrStdout(), "database ready: %d products, %d categories\n",
				len(products), len(app.Products.Categories()))
			return nil
		},
	}
}
