// Package configmanager loads conformance run configuration from flags and
// the CI environment variable surface.
//
// Configuration priority: defaults < environment variables < flags. The
// environment names (SKIP, FOCUS, IP_FAMILY, PARALLEL, ARTIFACTS,
// BAZEL_REMOTE_CACHE_ENABLED) are the bare names CI systems already export,
// so no prefix is applied.
package configmanager

import (
	"fmt"
	"os"
	"strings"

	"github.com/devantler-tech/conformci/pkg/apis/conformance/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys. Each key is bound to the environment variable of the
// same name and to the equivalent lowercased flag.
const (
	KeySkip                    = "SKIP"
	KeyFocus                   = "FOCUS"
	KeyIPFamily                = "IP_FAMILY"
	KeyParallel                = "PARALLEL"
	KeyArtifacts               = "ARTIFACTS"
	KeyBazelRemoteCacheEnabled = "BAZEL_REMOTE_CACHE_ENABLED"
	KeyRepoRoot                = "REPO_ROOT"
	KeyKubeRoot                = "KUBE_ROOT"
)

// ConfigManager binds the run configuration surface to a Cobra command.
type ConfigManager struct {
	Viper   *viper.Viper
	command *cobra.Command
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided
// Cobra command. It registers the configuration flags and binds each key to
// its environment variable.
func NewCommandConfigManager(cmd *cobra.Command) *ConfigManager {
	viperInstance := viper.New()

	manager := &ConfigManager{
		Viper:   viperInstance,
		command: cmd,
	}

	manager.addFlags(cmd)

	for _, key := range []string{
		KeySkip, KeyFocus, KeyIPFamily, KeyParallel,
		KeyArtifacts, KeyBazelRemoteCacheEnabled, KeyRepoRoot, KeyKubeRoot,
	} {
		_ = viperInstance.BindEnv(key)
	}

	return manager
}

// LoadConfig resolves the run configuration from flags and environment,
// applies defaults, and validates the result.
func (m *ConfigManager) LoadConfig() (*v1alpha1.RunConfig, error) {
	config := &v1alpha1.RunConfig{
		RepoRoot:                m.Viper.GetString(KeyRepoRoot),
		KubeRoot:                m.Viper.GetString(KeyKubeRoot),
		Focus:                   m.Viper.GetString(KeyFocus),
		Skip:                    m.Viper.GetString(KeySkip),
		IPFamily:                v1alpha1.IPFamily(strings.ToLower(m.Viper.GetString(KeyIPFamily))),
		Parallel:                m.Viper.GetBool(KeyParallel),
		Artifacts:               m.Viper.GetString(KeyArtifacts),
		BazelRemoteCacheEnabled: m.Viper.GetBool(KeyBazelRemoteCacheEnabled),
	}

	if config.RepoRoot == "" {
		// The CI default: run from inside the checkout.
		workingDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}

		config.RepoRoot = workingDir
	}

	config.SetDefaults()

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	return config, nil
}

// addFlags registers the run configuration flags and binds them to viper so
// explicit flags override environment values.
func (m *ConfigManager) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("repo-root", "", "Path to the kind source checkout (default: working directory)")
	flags.String("kube-root", "", "Path to the Kubernetes source checkout (default: GOPATH/src/k8s.io/kubernetes)")
	flags.String("focus", "", "Conformance focus regular expression (default: the conformance tag)")
	flags.String("skip", "", "Conformance skip regular expression")
	ipFamily := v1alpha1.DefaultIPFamily
	flags.Var(&ipFamily, "ip-family", "Cluster IP family: ipv4 or ipv6")
	flags.Bool("parallel", false, "Run the suite in parallel, excluding serial-only tests")
	flags.String("artifacts", "", "Directory for logs, topology descriptor, and test report")
	flags.Bool("bazel-remote-cache", false, "Warm the remote bazel build cache before building")

	_ = m.Viper.BindPFlag(KeyRepoRoot, flags.Lookup("repo-root"))
	_ = m.Viper.BindPFlag(KeyKubeRoot, flags.Lookup("kube-root"))
	_ = m.Viper.BindPFlag(KeyFocus, flags.Lookup("focus"))
	_ = m.Viper.BindPFlag(KeySkip, flags.Lookup("skip"))
	_ = m.Viper.BindPFlag(KeyIPFamily, flags.Lookup("ip-family"))
	_ = m.Viper.BindPFlag(KeyParallel, flags.Lookup("parallel"))
	_ = m.Viper.BindPFlag(KeyArtifacts, flags.Lookup("artifacts"))
	_ = m.Viper.BindPFlag(KeyBazelRemoteCacheEnabled, flags.Lookup("bazel-remote-cache"))
}
