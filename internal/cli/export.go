package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command. It writes the full data set
// as an indented JSON document to a file or stdout.
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all collections as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if output == "" {
				return app.Store.ExportJSON(cmd.OutOrStdout())
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer file.Close()

			if err := app.Store.ExportJSON(file); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the export to a file instead of stdout")
	return cmd
}
