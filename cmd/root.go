// Package cmd wires the conformci command tree.
package cmd

import (
	"fmt"

	"github.com/devantler-tech/conformci/cmd/cluster"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "conformci",
		Short:        "conformci runs Kubernetes conformance CI against kind clusters",
		Long: "conformci builds a kind node image from a Kubernetes source checkout, " +
			"provisions a multi-node cluster, and runs the conformance suite against it.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(cluster.NewClusterCmd())

	return cmd
}

// Execute runs the provided root command.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
