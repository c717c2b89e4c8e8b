package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the registro command tree.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "registro",
		Short:        "Incident and assignment tracker with an MCP interface",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBackupCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newExportLogCmd())

	return cmd
}
