// Package conformancetester runs the Kubernetes conformance suite against a
// provisioned cluster through the upstream e2e harness.
package conformancetester

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/devantler-tech/conformci/pkg/runner"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
)

// harnessScript is the upstream entrypoint wrapping the e2e.test binary,
// relative to the Kubernetes checkout.
const harnessScript = "./hack/ginkgo-e2e.sh"

// Options parameterizes a single suite invocation. Focus and Skip are the
// effective expressions; composition with the serial exclusion has already
// happened upstream.
type Options struct {
	// Kubeconfig is the path to the target cluster's kubeconfig.
	Kubeconfig string
	// Focus selects the tests to run.
	Focus string
	// Skip selects the tests to exclude. Empty skips nothing.
	Skip string
	// Parallel distributes specs across ginkgo workers.
	Parallel bool
	// NumNodes is the number of schedulable workers in the cluster.
	NumNodes int
	// ReportDir receives the JUnit report files.
	ReportDir string
	// ExtraPathDirs are prepended to the child PATH after the workspace
	// bin dir, so freshly built clients shadow installed ones.
	ExtraPathDirs []string
}

// Tester invokes the e2e harness from the Kubernetes checkout with the
// skeleton provider, so the suite talks only to the existing cluster and
// never tries to provision infrastructure itself.
type Tester struct {
	kubeRoot  string
	workspace *workspace.Workspace
	runner    runner.CommandRunner
	writer    io.Writer
}

// New constructs a Tester for the Kubernetes checkout at kubeRoot.
func New(
	kubeRoot string,
	wsp *workspace.Workspace,
	cmdRunner runner.CommandRunner,
	writer io.Writer,
) *Tester {
	return &Tester{
		kubeRoot:  kubeRoot,
		workspace: wsp,
		runner:    cmdRunner,
		writer:    writer,
	}
}

// Run executes the conformance suite. A nonzero harness exit is the run's
// failure and is returned as-is after wrapping.
func (t *Tester) Run(ctx context.Context, opts Options) error {
	notify.Activityf(t.writer,
		"running conformance suite (focus=%q skip=%q parallel=%t workers=%d)",
		opts.Focus, opts.Skip, opts.Parallel, opts.NumNodes)

	env := []string{
		"KUBECONFIG=" + opts.Kubeconfig,
		"KUBERNETES_CONFORMANCE_TEST=y",
	}
	if opts.Parallel {
		env = append(env, "GINKGO_PARALLEL=y")
	}

	_, err := t.runner.Run(ctx, runner.Command{
		Name: harnessScript,
		Args: []string{
			"--provider=skeleton",
			"--num-nodes=" + strconv.Itoa(opts.NumNodes),
			"--ginkgo.focus=" + opts.Focus,
			"--ginkgo.skip=" + opts.Skip,
			"--report-dir=" + opts.ReportDir,
			"--disable-log-dump=true",
		},
		Dir: t.kubeRoot,
		Env: t.workspace.Environ(opts.ExtraPathDirs, env...),
	})
	if err != nil {
		return fmt.Errorf("conformance suite failed: %w", err)
	}

	return nil
}
