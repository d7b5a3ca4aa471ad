// Package cluster exposes the cluster provisioning stage as standalone
// commands for debugging CI clusters locally.
package cluster

import (
	"github.com/spf13/cobra"
)

// NewClusterCmd wires the cluster command and its subcommands.
func NewClusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cluster",
		Short:        "Manage conformance clusters",
		Long:         "Create and delete conformance clusters without running the suite.",
		RunE:         handleClusterRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCreateCmd())
	cmd.AddCommand(NewDeleteCmd())

	return cmd
}

// handleClusterRunE handles the bare cluster command.
func handleClusterRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
