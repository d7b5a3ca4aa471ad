package cluster

import (
	"fmt"
	"io"

	v1alpha1 "github.com/devantler-tech/conformci/pkg/apis/conformance/v1alpha1"
	"github.com/devantler-tech/conformci/pkg/io/configmanager"
	"github.com/devantler-tech/conformci/pkg/runner"
	bazelbuilder "github.com/devantler-tech/conformci/pkg/svc/builder/bazel"
	kindinstaller "github.com/devantler-tech/conformci/pkg/svc/installer/kind"
	kindprovisioner "github.com/devantler-tech/conformci/pkg/svc/provisioner/cluster/kind"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
	"github.com/spf13/cobra"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

// imageFlagName selects the node image used for standalone creation, where
// a prebuilt image usually replaces the bazel-built one.
const imageFlagName = "image"

// NewCreateCmd wires the cluster create command. Only the provisioning
// settings of the shared configuration surface apply here; suite filters are
// ignored.
func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Create a conformance cluster",
		Long:         "Build kind from source and create the conformance topology with it.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)
	cmd.Flags().String(imageFlagName, bazelbuilder.NodeImage, "Node image to boot the cluster from")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return handleCreateRunE(cmd, cfgManager)
	}

	return cmd
}

// handleCreateRunE builds kind into a throwaway workspace and creates the
// cluster. The cluster outlives the command; the workspace does not.
func handleCreateRunE(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) error {
	config, err := cfgManager.LoadConfig()
	if err != nil {
		return err
	}

	image, err := cmd.Flags().GetString(imageFlagName)
	if err != nil {
		return fmt.Errorf("read image flag: %w", err)
	}

	writer := cmd.OutOrStdout()
	notify.Titlef(writer, "☸️", "Create cluster")

	wsp, provisioner, err := newProvisioner(cmd, config, image, writer)
	if err != nil {
		return err
	}
	defer removeWorkspace(wsp, writer)

	err = provisioner.Create(cmd.Context())
	if err != nil {
		return err
	}

	notify.Successf(writer, "cluster created")

	return nil
}

// newProvisioner prepares a workspace with a freshly built kind binary and
// returns a provisioner using it.
func newProvisioner(
	cmd *cobra.Command,
	config *v1alpha1.RunConfig,
	image string,
	writer io.Writer,
) (*workspace.Workspace, *kindprovisioner.Provisioner, error) {
	wsp, err := workspace.New(config.Artifacts)
	if err != nil {
		return nil, nil, err
	}

	procRunner := runner.NewProcessRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())

	err = kindinstaller.New(config.RepoRoot, wsp, procRunner, writer).Install(cmd.Context())
	if err != nil {
		removeWorkspace(wsp, writer)

		return nil, nil, err
	}

	family := kindv1alpha4.IPv4Family
	if config.IPFamily == v1alpha1.IPFamilyIPv6 {
		family = kindv1alpha4.IPv6Family
	}

	provisioner := kindprovisioner.New(
		kindprovisioner.NewClusterConfig(family), image, wsp, procRunner, writer,
	)

	return wsp, provisioner, nil
}

func removeWorkspace(wsp *workspace.Workspace, writer io.Writer) {
	err := wsp.Remove()
	if err != nil {
		notify.Warningf(writer, "cleanup failed: %v", err)
	}
}
