package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command. It clears the persisted image
// and rebuilds the database from the schema and seed data.
func NewResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all data and rebuild from seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset destroys all data; pass --yes to confirm")
			}
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Engine.Reset(); err != nil {
				return fmt.Errorf("reset database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset to seed state")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")
	return cmd
}
