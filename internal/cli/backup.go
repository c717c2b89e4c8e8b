package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export both collections to a dated JSON backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer app.Close()

			path, err := app.Backups.ExportToFile(cmd.Context(), outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the backup file")

	return cmd
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace both collections with the contents of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Backups.RestoreFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d incidencias, %d asignaciones\n",
				report.Incidencias, report.Asignaciones)
			return nil
		},
	}

	return cmd
}
