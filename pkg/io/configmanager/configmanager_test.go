//nolint:paralleltest // Tests mutate process environment variables.
package configmanager_test

import (
	"testing"

	"github.com/devantler-tech/conformci/pkg/apis/conformance/v1alpha1"
	"github.com/devantler-tech/conformci/pkg/io/configmanager"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() (*cobra.Command, *configmanager.ConfigManager) {
	cmd := &cobra.Command{Use: "run", RunE: func(*cobra.Command, []string) error { return nil }}
	manager := configmanager.NewCommandConfigManager(cmd)

	return cmd, manager
}

func TestLoadConfig_Defaults(t *testing.T) {
	_, manager := newManager()

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.IPFamilyIPv4, cfg.IPFamily)
	assert.Equal(t, v1alpha1.DefaultArtifactsDir, cfg.Artifacts)
	assert.Empty(t, cfg.Skip)
	assert.Empty(t, cfg.Focus)
	assert.False(t, cfg.Parallel)
	assert.False(t, cfg.BazelRemoteCacheEnabled)
	assert.NotEmpty(t, cfg.RepoRoot, "repo root defaults to the working directory")
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("SKIP", `\[Flaky\]`)
	t.Setenv("FOCUS", `\[sig-network\]`)
	t.Setenv("IP_FAMILY", "ipv6")
	t.Setenv("PARALLEL", "true")
	t.Setenv("ARTIFACTS", "/tmp/artifacts")
	t.Setenv("BAZEL_REMOTE_CACHE_ENABLED", "true")

	_, manager := newManager()

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, `\[Flaky\]`, cfg.Skip)
	assert.Equal(t, `\[sig-network\]`, cfg.Focus)
	assert.Equal(t, v1alpha1.IPFamilyIPv6, cfg.IPFamily)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, "/tmp/artifacts", cfg.Artifacts)
	assert.True(t, cfg.BazelRemoteCacheEnabled)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("IP_FAMILY", "ipv4")
	t.Setenv("ARTIFACTS", "/from-env")

	cmd, manager := newManager()

	require.NoError(t, cmd.Flags().Set("ip-family", "ipv6"))
	require.NoError(t, cmd.Flags().Set("artifacts", "/from-flag"))

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.IPFamilyIPv6, cfg.IPFamily)
	assert.Equal(t, "/from-flag", cfg.Artifacts)
}

func TestLoadConfig_RejectsInvalidIPFamily(t *testing.T) {
	t.Setenv("IP_FAMILY", "dualstack")

	_, manager := newManager()

	_, err := manager.LoadConfig()
	require.ErrorIs(t, err, v1alpha1.ErrInvalidIPFamily)
}

func TestLoadConfig_RejectsInvalidSkipExpression(t *testing.T) {
	t.Setenv("SKIP", "[unclosed")

	_, manager := newManager()

	_, err := manager.LoadConfig()
	require.ErrorIs(t, err, v1alpha1.ErrInvalidFilterExpression)
}
