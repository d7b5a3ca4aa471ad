// Package orchestrator sequences the stages of a conformance run and owns
// the teardown stack guaranteeing cleanup on every exit path.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	v1alpha1 "github.com/devantler-tech/conformci/pkg/apis/conformance/v1alpha1"
	"github.com/devantler-tech/conformci/pkg/k8s"
	"github.com/devantler-tech/conformci/pkg/runner"
	bazelbuilder "github.com/devantler-tech/conformci/pkg/svc/builder/bazel"
	kindinstaller "github.com/devantler-tech/conformci/pkg/svc/installer/kind"
	kindprovisioner "github.com/devantler-tech/conformci/pkg/svc/provisioner/cluster/kind"
	conformancetester "github.com/devantler-tech/conformci/pkg/svc/tester/conformance"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
	"github.com/devantler-tech/conformci/pkg/ui/timer"
	"k8s.io/client-go/kubernetes"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

// logsSubdir is the artifacts subdirectory receiving exported cluster logs.
const logsSubdir = "logs"

// ToolInstaller builds the provisioning tool into the run workspace.
type ToolInstaller interface {
	Install(ctx context.Context) error
}

// ImageBuilder produces the node image and test artifacts.
type ImageBuilder interface {
	WarmCache(ctx context.Context)
	Build(ctx context.Context) error
	ReclaimMemory(ctx context.Context)
	KubectlDir() string
	RemoveStagedTestBinary() error
}

// ClusterProvisioner manages the conformance cluster's lifecycle.
type ClusterProvisioner interface {
	Up() bool
	Create(ctx context.Context) error
	Delete(ctx context.Context) error
	ExportLogs(ctx context.Context, dir string) error
	KubeconfigPath(ctx context.Context) (string, error)
}

// SuiteRunner executes the conformance suite against an existing cluster.
type SuiteRunner interface {
	Run(ctx context.Context, opts conformancetester.Options) error
}

// Deps are the stage implementations a run is composed of. Production wiring
// comes from NewDeps; tests substitute fakes.
type Deps struct {
	Workspace   *workspace.Workspace
	Installer   ToolInstaller
	Builder     ImageBuilder
	Provisioner ClusterProvisioner
	Tester      SuiteRunner
	// NewClient builds an API client for the provisioned cluster from its
	// kubeconfig path.
	NewClient func(kubeconfig string) (kubernetes.Interface, error)
}

// NewDeps wires the production stage implementations for the given config.
func NewDeps(
	config *v1alpha1.RunConfig,
	cmdRunner runner.CommandRunner,
	writer io.Writer,
) (*Deps, error) {
	wsp, err := workspace.New(config.Artifacts)
	if err != nil {
		return nil, err
	}

	clusterConfig := kindprovisioner.NewClusterConfig(ipFamilyFor(config.IPFamily))

	return &Deps{
		Workspace: wsp,
		Installer: kindinstaller.New(config.RepoRoot, wsp, cmdRunner, writer),
		Builder:   bazelbuilder.New(config.KubeRoot, wsp, cmdRunner, writer),
		Provisioner: kindprovisioner.New(
			clusterConfig, bazelbuilder.NodeImage, wsp, cmdRunner, writer,
		),
		Tester: conformancetester.New(config.KubeRoot, wsp, cmdRunner, writer),
		NewClient: func(kubeconfig string) (kubernetes.Interface, error) {
			return k8s.NewClientset(kubeconfig)
		},
	}, nil
}

// Orchestrator runs the conformance pipeline: install the provisioning tool,
// build the image and test artifacts, create the cluster, post-configure DNS
// for IPv6, run the suite, and tear everything down in reverse order.
type Orchestrator struct {
	config   *v1alpha1.RunConfig
	deps     *Deps
	teardown *TeardownStack
	timer    timer.Timer
	writer   io.Writer
}

// New constructs an Orchestrator from a validated config and wired deps.
func New(config *v1alpha1.RunConfig, deps *Deps, writer io.Writer) *Orchestrator {
	return &Orchestrator{
		config:   config,
		deps:     deps,
		teardown: NewTeardownStack(writer),
		timer:    timer.New(),
		writer:   writer,
	}
}

// Teardown exposes the run's cleanup stack so callers can trigger it from a
// signal handler. Execution remains exactly-once.
func (o *Orchestrator) Teardown() *TeardownStack {
	return o.teardown
}

// Run executes the whole pipeline. Cleanup runs on every path once the
// workspace exists; the first fatal stage error aborts the run and is
// returned after teardown completes.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.teardown.Execute()

	// Cleanup must proceed even when the run's context is already
	// cancelled, so teardown steps get a detached context.
	cleanupCtx := context.WithoutCancel(ctx)

	o.timer.Start()

	o.teardown.Register("remove workspace", o.deps.Workspace.Remove)
	o.teardown.Register("remove staged test binary", o.deps.Builder.RemoveStagedTestBinary)

	// Registered up front so a failure in any stage still attempts the
	// export. Delete consults Up, so a never-created cluster is skipped.
	logsDir := filepath.Join(o.deps.Workspace.ArtifactsDir, logsSubdir)
	o.teardown.Register("delete cluster", func() error {
		if !o.deps.Provisioner.Up() {
			return nil
		}

		return o.deps.Provisioner.Delete(cleanupCtx)
	})
	o.teardown.Register("export cluster logs", func() error {
		return o.deps.Provisioner.ExportLogs(cleanupCtx, logsDir)
	})

	err := o.installTool(ctx)
	if err != nil {
		return err
	}

	err = o.buildArtifacts(ctx)
	if err != nil {
		return err
	}

	err = o.createCluster(ctx)
	if err != nil {
		return err
	}

	kubeconfig, client, err := o.connect(ctx)
	if err != nil {
		return err
	}

	err = o.configureDNS(ctx, client)
	if err != nil {
		return err
	}

	err = o.runSuite(ctx, kubeconfig, client)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(o.writer, o.timer, "conformance run passed")

	return nil
}

func (o *Orchestrator) installTool(ctx context.Context) error {
	o.timer.NewStage()
	notify.Titlef(o.writer, "🔨", "Installing provisioning tool")

	return o.deps.Installer.Install(ctx)
}

func (o *Orchestrator) buildArtifacts(ctx context.Context) error {
	o.timer.NewStage()
	notify.Titlef(o.writer, "📦", "Building node image and test artifacts")

	if o.config.BazelRemoteCacheEnabled {
		o.deps.Builder.WarmCache(ctx)
	}

	err := o.deps.Builder.Build(ctx)
	if err != nil {
		return err
	}

	o.deps.Builder.ReclaimMemory(ctx)

	return nil
}

func (o *Orchestrator) createCluster(ctx context.Context) error {
	o.timer.NewStage()
	notify.Titlef(o.writer, "☸️", "Creating cluster")

	return o.deps.Provisioner.Create(ctx)
}

func (o *Orchestrator) connect(ctx context.Context) (string, kubernetes.Interface, error) {
	kubeconfig, err := o.deps.Provisioner.KubeconfigPath(ctx)
	if err != nil {
		return "", nil, err
	}

	client, err := o.deps.NewClient(kubeconfig)
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}

	return kubeconfig, client, nil
}

func (o *Orchestrator) configureDNS(ctx context.Context, client kubernetes.Interface) error {
	if o.config.IPFamily != v1alpha1.IPFamilyIPv6 {
		return nil
	}

	o.timer.NewStage()
	notify.Titlef(o.writer, "🌐", "Reconfiguring cluster DNS for IPv6")

	return k8s.PatchCoreDNSForIPv6(ctx, client)
}

func (o *Orchestrator) runSuite(
	ctx context.Context,
	kubeconfig string,
	client kubernetes.Interface,
) error {
	o.timer.NewStage()
	notify.Titlef(o.writer, "🧪", "Running conformance suite")

	workers, err := k8s.CountWorkerNodes(ctx, client)
	if err != nil {
		return err
	}

	var extraPathDirs []string
	if dir := o.deps.Builder.KubectlDir(); dir != "" {
		extraPathDirs = append(extraPathDirs, dir)
	}

	return o.deps.Tester.Run(ctx, conformancetester.Options{
		Kubeconfig:    kubeconfig,
		Focus:         o.config.EffectiveFocus(),
		Skip:          o.config.EffectiveSkip(),
		Parallel:      o.config.Parallel,
		NumNodes:      workers,
		ReportDir:     o.deps.Workspace.ArtifactsDir,
		ExtraPathDirs: extraPathDirs,
	})
}

// ipFamilyFor maps the run configuration's address family onto the
// provisioner's config type.
func ipFamilyFor(family v1alpha1.IPFamily) kindv1alpha4.ClusterIPFamily {
	if family == v1alpha1.IPFamilyIPv6 {
		return kindv1alpha4.IPv6Family
	}

	return kindv1alpha4.IPv4Family
}
