package cmd_test

import (
	"bytes"
	"testing"

	"github.com/devantler-tech/conformci/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Metadata(t *testing.T) {
	t.Parallel()

	rootCmd := cmd.NewRootCmd("1.2.3", "abc123", "2026-01-01")

	assert.Equal(t, "conformci", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.Equal(t, "1.2.3 (Built on 2026-01-01 from Git SHA abc123)", rootCmd.Version)
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	rootCmd := cmd.NewRootCmd("dev", "none", "unknown")

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "run")
	assert.Contains(t, names, "cluster")
}

func TestRootCmd_PrintsHelpWithoutArgs(t *testing.T) {
	t.Parallel()

	rootCmd := cmd.NewRootCmd("dev", "none", "unknown")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{})

	err := cmd.Execute(rootCmd)

	require.NoError(t, err)

	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Available Commands:")
	assert.Contains(t, help, "run")
	assert.Contains(t, help, "cluster")
}

func TestNewRunCmd_RegistersConfigurationFlags(t *testing.T) {
	t.Parallel()

	rootCmd := cmd.NewRootCmd("dev", "none", "unknown")
	runCmd, _, err := rootCmd.Find([]string{"run"})
	require.NoError(t, err)

	for _, name := range []string{
		"repo-root", "kube-root", "focus", "skip",
		"ip-family", "parallel", "artifacts", "bazel-remote-cache",
	} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestRunCmd_RejectsInvalidIPFamily(t *testing.T) {
	rootCmd := cmd.NewRootCmd("dev", "none", "unknown")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"run", "--ip-family=carrier-pigeon"})

	err := cmd.Execute(rootCmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}
