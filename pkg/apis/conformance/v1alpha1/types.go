package v1alpha1

const (
	// Group is the API group for conformci.
	Group = "conformci.dev"
	// Version is the API version for conformci.
	Version = "v1alpha1"
	// Kind is the kind for conformance run configurations.
	Kind = "RunConfig"
	// APIVersion is the full API version for conformci.
	APIVersion = Group + "/" + Version
)

// RunConfig describes one conformance CI run: what to build, the cluster
// topology addressing, how to filter the test suite, and where artifacts go.
type RunConfig struct {
	// RepoRoot is the absolute path to the provisioning tool's source
	// checkout, from which kind is built into the run workspace.
	RepoRoot string `json:"repoRoot,omitzero"`

	// KubeRoot is the absolute path to the Kubernetes source checkout the
	// node image and test binaries are built from.
	KubeRoot string `json:"kubeRoot,omitzero"`

	// IPFamily selects the cluster's address family. IPv6 additionally
	// triggers the CoreDNS post-configuration stage.
	IPFamily IPFamily `json:"ipFamily,omitzero"`

	// Focus is the regular expression selecting which tests to run.
	// Empty means the conformance-tagged default.
	Focus string `json:"focus,omitzero"`

	// Skip is the regular expression selecting which tests to exclude.
	Skip string `json:"skip,omitzero"`

	// Parallel runs the suite in parallel, excluding serial-only tests.
	Parallel bool `json:"parallel,omitzero"`

	// Artifacts is the directory receiving logs, the topology descriptor,
	// and the test report.
	Artifacts string `json:"artifacts,omitzero"`

	// BazelRemoteCacheEnabled enables the best-effort remote build cache
	// warmup before the bazel build.
	BazelRemoteCacheEnabled bool `json:"bazelRemoteCacheEnabled,omitzero"`
}

// EffectiveFocus returns the focus expression to pass to the runner,
// falling back to the conformance-tagged default when unset.
func (c *RunConfig) EffectiveFocus() string {
	if c.Focus == "" {
		return DefaultFocus
	}

	return c.Focus
}

// EffectiveSkip returns the skip expression to pass to the runner. When
// Parallel is set, serial-only tests are excluded in addition to any
// caller-provided skip expression, joined by alternation.
func (c *RunConfig) EffectiveSkip() string {
	if !c.Parallel {
		return c.Skip
	}

	if c.Skip == "" {
		return SerialSkipPattern
	}

	return SerialSkipPattern + "|" + c.Skip
}
