package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPurgeCommand creates the purge command deleting analytics events older
// than the retention window.
func NewPurgeCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete analytics events past the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			retention := days
			if retention <= 0 {
				retention = app.Config.Analytics.RetentionDays
			}
			deleted, err := app.Analytics.ClearOldEvents(retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d events older than %d days\n", deleted, retention)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "override the configured retention window")
	return cmd
}
