package kindprovisioner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/conformci/pkg/runner"
	kindprovisioner "github.com/devantler-tech/conformci/pkg/svc/provisioner/cluster/kind"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

var errKindFailed = errors.New("kind exited 1")

type fakeRunner struct {
	commands []runner.Command
	result   runner.CommandResult
	err      error
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) (runner.CommandResult, error) {
	f.commands = append(f.commands, cmd)

	return f.result, f.err
}

func newProvisioner(t *testing.T, fake *fakeRunner) (*kindprovisioner.Provisioner, *workspace.Workspace) {
	t.Helper()

	wsp, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = wsp.Remove() })

	config := kindprovisioner.NewClusterConfig(v1alpha4.IPv4Family)
	provisioner := kindprovisioner.New(config, "kindest/node:latest", wsp, fake, &bytes.Buffer{})

	return provisioner, wsp
}

func TestNewClusterConfig_OneControlPlaneTwoWorkers(t *testing.T) {
	t.Parallel()

	config := kindprovisioner.NewClusterConfig(v1alpha4.IPv6Family)

	require.Len(t, config.Nodes, 3)
	assert.Equal(t, v1alpha4.ControlPlaneRole, config.Nodes[0].Role)
	assert.Equal(t, v1alpha4.WorkerRole, config.Nodes[1].Role)
	assert.Equal(t, v1alpha4.WorkerRole, config.Nodes[2].Role)
	assert.Equal(t, v1alpha4.IPv6Family, config.Networking.IPFamily)
}

func TestCreate_WritesDescriptorAndFlipsUp(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{}
	provisioner, wsp := newProvisioner(t, fake)

	require.False(t, provisioner.Up())
	require.NoError(t, provisioner.Create(context.Background()))
	assert.True(t, provisioner.Up())

	configPath := filepath.Join(wsp.ArtifactsDir, "kind-config.yaml")
	require.FileExists(t, configPath)

	descriptor, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(descriptor), "role: control-plane")

	require.Len(t, fake.commands, 1)

	cmd := fake.commands[0]
	assert.Equal(t, "kind", cmd.Name)
	assert.Equal(t, []string{
		"create", "cluster",
		"--image=kindest/node:latest",
		"--retain",
		"--wait=1m",
		"-v=3",
		"--config=" + configPath,
	}, cmd.Args)
}

func TestCreate_FailureKeepsUpFalse(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{err: errKindFailed}
	provisioner, _ := newProvisioner(t, fake)

	err := provisioner.Create(context.Background())

	require.ErrorIs(t, err, errKindFailed)
	assert.False(t, provisioner.Up())
}

func TestDelete_InvokesKindDelete(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{}
	provisioner, _ := newProvisioner(t, fake)

	require.NoError(t, provisioner.Create(context.Background()))
	require.NoError(t, provisioner.Delete(context.Background()))

	assert.False(t, provisioner.Up())
	assert.Equal(t, []string{"delete", "cluster"}, fake.commands[1].Args)
}

func TestExportLogs_PassesDirectory(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{}
	provisioner, _ := newProvisioner(t, fake)

	require.NoError(t, provisioner.ExportLogs(context.Background(), "/tmp/logs"))

	assert.Equal(t, []string{"export", "logs", "/tmp/logs"}, fake.commands[0].Args)
}

func TestKubeconfigPath_TrimsOutput(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{result: runner.CommandResult{Stdout: "/home/ci/.kube/kind-config-kind\n"}}
	provisioner, _ := newProvisioner(t, fake)

	path, err := provisioner.KubeconfigPath(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/home/ci/.kube/kind-config-kind", path)
	assert.Equal(t, []string{"get", "kubeconfig-path"}, fake.commands[0].Args)
}
