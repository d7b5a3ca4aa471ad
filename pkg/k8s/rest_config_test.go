package k8s_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/conformci/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: test-cluster
contexts:
- context:
    cluster: test-cluster
    user: test-user
  name: test-context
current-context: test-context
users:
- name: test-user
  user:
    token: fake-token
`

// TestBuildRESTConfig_EmptyKubeconfig tests that empty kubeconfig path returns ErrKubeconfigPathEmpty.
func TestBuildRESTConfig_EmptyKubeconfig(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig("")

	require.Error(t, err)
	assert.Nil(t, config)
	assert.ErrorIs(t, err, k8s.ErrKubeconfigPathEmpty)
}

// TestBuildRESTConfig_NonExistentPath tests handling of non-existent kubeconfig path.
func TestBuildRESTConfig_NonExistentPath(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig("/nonexistent/path/to/kubeconfig")

	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}

// TestBuildRESTConfig_InvalidContent tests handling of invalid kubeconfig content.
func TestBuildRESTConfig_InvalidContent(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	kubeconfigPath := filepath.Join(tmpDir, "invalid-kubeconfig")

	err := os.WriteFile(kubeconfigPath, []byte("this is not valid yaml {{{"), 0o600)
	require.NoError(t, err)

	config, err := k8s.BuildRESTConfig(kubeconfigPath)

	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}

// TestBuildRESTConfig_ValidKubeconfig tests successful parsing of valid kubeconfig.
func TestBuildRESTConfig_ValidKubeconfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	kubeconfigPath := filepath.Join(tmpDir, "kubeconfig")

	err := os.WriteFile(kubeconfigPath, []byte(validKubeconfig), 0o600)
	require.NoError(t, err)

	config, err := k8s.BuildRESTConfig(kubeconfigPath)

	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, "https://127.0.0.1:6443", config.Host)
}

// TestNewClientset_EmptyKubeconfig tests that empty kubeconfig path returns error.
func TestNewClientset_EmptyKubeconfig(t *testing.T) {
	t.Parallel()

	clientset, err := k8s.NewClientset("")

	require.Error(t, err)
	assert.Nil(t, clientset)
	assert.Contains(t, err.Error(), "failed to build rest config")
	assert.ErrorIs(t, err, k8s.ErrKubeconfigPathEmpty)
}

// TestNewClientset_ValidKubeconfig tests successful creation of clientset.
func TestNewClientset_ValidKubeconfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	kubeconfigPath := filepath.Join(tmpDir, "kubeconfig")

	err := os.WriteFile(kubeconfigPath, []byte(validKubeconfig), 0o600)
	require.NoError(t, err)

	clientset, err := k8s.NewClientset(kubeconfigPath)

	require.NoError(t, err)
	require.NotNil(t, clientset)
}
