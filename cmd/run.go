package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/devantler-tech/conformci/pkg/io/configmanager"
	"github.com/devantler-tech/conformci/pkg/runner"
	"github.com/devantler-tech/conformci/pkg/svc/orchestrator"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewRunCmd wires the run command, the end-to-end conformance pipeline.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full conformance pipeline",
		Long: "Build kind and the node image from source, provision a conformance " +
			"cluster, run the suite, and tear everything down.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return handleRunRunE(cmd, cfgManager)
	}

	return cmd
}

// handleRunRunE loads the run configuration and executes the pipeline.
// SIGINT/SIGTERM cancel the in-flight stage; teardown still runs to
// completion on a detached context.
func handleRunRunE(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) error {
	config, err := cfgManager.LoadConfig()
	if err != nil {
		return err
	}

	writer := notify.NewStageSeparatingWriter(cmd.OutOrStdout())

	notify.Titlef(writer, "🚀", "Conformance run (%s, parallel=%t)",
		config.IPFamily, config.Parallel)

	deps, err := orchestrator.NewDeps(config, runner.NewProcessRunner(
		cmd.OutOrStdout(), cmd.ErrOrStderr(),
	), writer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.New(config, deps, writer).Run(ctx)
}
