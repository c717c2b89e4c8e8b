package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportLogCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export-log",
		Short: "Export the activity log to a dated CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer app.Close()

			filename, data, err := app.Activity.ExportCSV(cmd.Context())
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing log export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the CSV file")

	return cmd
}
