package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the store CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "store",
		Short:         "Knotara storefront persistence core",
		Long:          "Embedded storefront database with full-image persistence, data access layer and domain services.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewResetCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewPurgeCommand())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
