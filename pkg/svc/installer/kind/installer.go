// Package kindinstaller builds the kind binary from a source checkout into
// the run workspace, so every later stage resolves the freshly built tool
// instead of any system-installed copy.
package kindinstaller

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/conformci/pkg/runner"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
)

// Installer compiles kind from the checked-out source tree into the
// workspace bin directory via the repo's own make target.
type Installer struct {
	repoRoot  string
	workspace *workspace.Workspace
	runner    runner.CommandRunner
	writer    io.Writer
}

// New constructs an Installer building from repoRoot into the workspace.
func New(
	repoRoot string,
	wsp *workspace.Workspace,
	cmdRunner runner.CommandRunner,
	writer io.Writer,
) *Installer {
	return &Installer{
		repoRoot:  repoRoot,
		workspace: wsp,
		runner:    cmdRunner,
		writer:    writer,
	}
}

// Install builds and installs kind into the workspace bin directory. Any
// build error is fatal to the run.
func (i *Installer) Install(ctx context.Context) error {
	notify.Activityf(i.writer, "installing kind from %s", i.repoRoot)

	_, err := i.runner.Run(ctx, runner.Command{
		Name: "make",
		Args: []string{"install", "INSTALL_DIR=" + i.workspace.BinDir},
		Dir:  i.repoRoot,
		Env:  i.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to install kind: %w", err)
	}

	return nil
}
