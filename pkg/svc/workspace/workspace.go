// Package workspace manages the per-run temporary directory holding freshly
// built tooling, and the artifacts directory receiving run outputs.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dirPerms = 0o755

// Workspace is the exclusively-owned on-disk state of a single run. The
// temporary root holds tool binaries under bin/; the artifacts directory is
// an append-only sink for logs, the topology descriptor, and the report.
type Workspace struct {
	// Root is the unique temporary directory for this run.
	Root string
	// BinDir is Root/bin, where freshly built tools are installed.
	BinDir string
	// ArtifactsDir receives logs, config, and reports. It is created if
	// absent and reused otherwise.
	ArtifactsDir string
}

// New creates a fresh workspace and ensures the artifacts directory exists.
// Failure here is fatal to the run: nothing has been provisioned yet, so no
// teardown is owed.
func New(artifactsDir string) (*Workspace, error) {
	root, err := os.MkdirTemp("", "conformci-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	binDir := filepath.Join(root, "bin")

	err = os.MkdirAll(binDir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create workspace bin dir: %w", err)
	}

	absArtifacts, err := filepath.Abs(artifactsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve artifacts dir: %w", err)
	}

	err = os.MkdirAll(absArtifacts, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	return &Workspace{
		Root:         root,
		BinDir:       binDir,
		ArtifactsDir: absArtifacts,
	}, nil
}

// PathEnv returns the PATH value for child processes, with the workspace bin
// dir prepended so freshly built tools shadow any system-installed copies.
// Additional directories are prepended after BinDir in the order given.
func (w *Workspace) PathEnv(extraDirs ...string) string {
	dirs := append([]string{w.BinDir}, extraDirs...)

	return strings.Join(dirs, string(os.PathListSeparator)) +
		string(os.PathListSeparator) + os.Getenv("PATH")
}

// Environ returns a complete child-process environment: the parent
// environment with PATH replaced by PathEnv(extraDirs...) and the extra
// variables appended. Later entries win, per os/exec semantics.
func (w *Workspace) Environ(extraDirs []string, extraVars ...string) []string {
	env := os.Environ()
	env = append(env, "PATH="+w.PathEnv(extraDirs...))
	env = append(env, extraVars...)

	return env
}

// Remove deletes the temporary workspace root. The artifacts directory is
// never removed; it outlives the run.
func (w *Workspace) Remove() error {
	err := os.RemoveAll(w.Root)
	if err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}

	return nil
}
