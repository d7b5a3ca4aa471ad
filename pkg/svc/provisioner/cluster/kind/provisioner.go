// Package kindprovisioner provisions the multi-node conformance cluster
// through the workspace-installed kind binary.
package kindprovisioner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/conformci/pkg/io/marshaller"
	"github.com/devantler-tech/conformci/pkg/runner"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

const (
	// configFileName is the topology descriptor written into the artifacts
	// directory once per run.
	configFileName = "kind-config.yaml"

	// createTimeout bounds how long kind waits for the control plane.
	createTimeout = "1m"

	configFilePerms = 0o600
)

// Provisioner drives cluster create/delete/export-logs through the kind CLI
// resolved from the workspace bin directory, so the freshly built tool is
// always the one invoked.
//
// The Up flag is the single source of truth for teardown: it flips true
// only after a successful create, so cleanup never deletes a cluster that
// was never provisioned.
type Provisioner struct {
	kindConfig *v1alpha4.Cluster
	image      string
	workspace  *workspace.Workspace
	runner     runner.CommandRunner
	writer     io.Writer

	up bool
}

// New constructs a Provisioner creating clusters from the given topology
// and node image.
func New(
	kindConfig *v1alpha4.Cluster,
	image string,
	wsp *workspace.Workspace,
	cmdRunner runner.CommandRunner,
	writer io.Writer,
) *Provisioner {
	return &Provisioner{
		kindConfig: kindConfig,
		image:      image,
		workspace:  wsp,
		runner:     cmdRunner,
		writer:     writer,
	}
}

// NewClusterConfig returns the conformance topology: one control-plane node
// and two workers, with the requested address family.
func NewClusterConfig(ipFamily v1alpha4.ClusterIPFamily) *v1alpha4.Cluster {
	return &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Nodes: []v1alpha4.Node{
			{Role: v1alpha4.ControlPlaneRole},
			{Role: v1alpha4.WorkerRole},
			{Role: v1alpha4.WorkerRole},
		},
		Networking: v1alpha4.Networking{IPFamily: ipFamily},
	}
}

// Up reports whether a cluster was successfully created by this run.
func (p *Provisioner) Up() bool { return p.up }

// Create writes the topology descriptor into the artifacts directory and
// requests cluster creation. Nodes are retained on failure so logs can be
// exported afterwards.
func (p *Provisioner) Create(ctx context.Context) error {
	configPath, err := p.writeConfig()
	if err != nil {
		return err
	}

	notify.Activityf(p.writer, "creating cluster from %s", configPath)

	_, err = p.runner.Run(ctx, runner.Command{
		Name: "kind",
		Args: []string{
			"create", "cluster",
			"--image=" + p.image,
			"--retain",
			"--wait=" + createTimeout,
			"-v=3",
			"--config=" + configPath,
		},
		Env: p.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create cluster: %w", err)
	}

	p.up = true

	return nil
}

// Delete deletes the cluster.
func (p *Provisioner) Delete(ctx context.Context) error {
	_, err := p.runner.Run(ctx, runner.Command{
		Name: "kind",
		Args: []string{"delete", "cluster"},
		Env:  p.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to delete cluster: %w", err)
	}

	p.up = false

	return nil
}

// ExportLogs exports cluster logs into the given directory.
func (p *Provisioner) ExportLogs(ctx context.Context, dir string) error {
	_, err := p.runner.Run(ctx, runner.Command{
		Name: "kind",
		Args: []string{"export", "logs", dir},
		Env:  p.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to export cluster logs: %w", err)
	}

	return nil
}

// KubeconfigPath returns the path to the cluster's kubeconfig as reported
// by the provisioning tool.
func (p *Provisioner) KubeconfigPath(ctx context.Context) (string, error) {
	result, err := p.runner.Run(ctx, runner.Command{
		Name: "kind",
		Args: []string{"get", "kubeconfig-path"},
		Env:  p.workspace.Environ(nil),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get kubeconfig path: %w", err)
	}

	return strings.TrimSpace(result.Stdout), nil
}

// writeConfig serializes the topology descriptor into the artifacts
// directory. The descriptor is written once per run and never mutated.
func (p *Provisioner) writeConfig() (string, error) {
	yamlMarshaller := marshaller.NewYAMLMarshaller[*v1alpha4.Cluster]()

	configYAML, err := yamlMarshaller.Marshal(p.kindConfig)
	if err != nil {
		return "", fmt.Errorf("marshal cluster config: %w", err)
	}

	configPath := filepath.Join(p.workspace.ArtifactsDir, configFileName)

	err = os.WriteFile(configPath, []byte(configYAML), configFilePerms)
	if err != nil {
		return "", fmt.Errorf("write cluster config: %w", err)
	}

	return configPath, nil
}
