package v1alpha1

import (
	"go/build"
	"path/filepath"
)

const (
	// DefaultFocus is the conformance-tagged focus pattern used when no
	// focus expression is provided.
	DefaultFocus = `\[Conformance\]`
	// SerialSkipPattern excludes serial-only tests from parallel runs.
	SerialSkipPattern = `\[Serial\]`
	// DefaultIPFamily is the address family used when none is configured.
	DefaultIPFamily = IPFamilyIPv4
	// DefaultArtifactsDir is the artifacts directory relative to the
	// working directory when ARTIFACTS is unset.
	DefaultArtifactsDir = "_artifacts"
)

// SetDefaults fills unset fields with their default values.
func (c *RunConfig) SetDefaults() {
	if c.IPFamily == "" {
		c.IPFamily = DefaultIPFamily
	}

	if c.Artifacts == "" {
		c.Artifacts = DefaultArtifactsDir
	}

	if c.KubeRoot == "" {
		c.KubeRoot = DefaultKubeRoot()
	}
}

// DefaultKubeRoot returns the conventional Kubernetes checkout location
// under GOPATH, matching where CI jobs place the source tree.
func DefaultKubeRoot() string {
	return filepath.Join(build.Default.GOPATH, "src", "k8s.io", "kubernetes")
}
