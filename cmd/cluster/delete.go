package cluster

import (
	"github.com/devantler-tech/conformci/pkg/io/configmanager"
	bazelbuilder "github.com/devantler-tech/conformci/pkg/svc/builder/bazel"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewDeleteCmd wires the cluster delete command.
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "delete",
		Short:        "Delete a conformance cluster",
		Long:         "Delete the conformance cluster created by cluster create or run.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return handleDeleteRunE(cmd, cfgManager)
	}

	return cmd
}

// handleDeleteRunE builds kind into a throwaway workspace and deletes the
// cluster with it.
func handleDeleteRunE(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) error {
	config, err := cfgManager.LoadConfig()
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()
	notify.Titlef(writer, "🔥", "Delete cluster")

	wsp, provisioner, err := newProvisioner(cmd, config, bazelbuilder.NodeImage, writer)
	if err != nil {
		return err
	}
	defer removeWorkspace(wsp, writer)

	err = provisioner.Delete(cmd.Context())
	if err != nil {
		return err
	}

	notify.Successf(writer, "cluster deleted")

	return nil
}
