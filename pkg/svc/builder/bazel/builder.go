// Package bazelbuilder drives the bazel build of the kind node image and the
// conformance test artifacts from a Kubernetes source checkout.
package bazelbuilder

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devantler-tech/conformci/pkg/runner"
	"github.com/devantler-tech/conformci/pkg/svc/workspace"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
)

const (
	// NodeImage is the image tag produced by the node-image build and
	// consumed by cluster creation.
	NodeImage = "kindest/node:latest"

	// testBinaryRelPath is the fixed, discoverable location the staged
	// e2e.test binary is copied to, relative to the Kubernetes checkout.
	// External test tooling expects binaries under _output/bin.
	testBinaryRelPath = "_output/bin/e2e.test"

	// bazelTestBinary is where bazel leaves the built test binary.
	bazelTestBinary = "bazel-bin/test/e2e/e2e.test"

	binaryPerms = 0o755
	dirPerms    = 0o755
)

// Builder produces the node image, the e2e test binary, and the kubectl
// client from the Kubernetes checkout. The build itself is fatal on error;
// cache warmup and memory reclamation are best-effort.
type Builder struct {
	kubeRoot  string
	workspace *workspace.Workspace
	runner    runner.CommandRunner
	writer    io.Writer

	stagedTestBinary string
	kubectlDir       string
}

// New constructs a Builder for the Kubernetes checkout at kubeRoot.
func New(
	kubeRoot string,
	wsp *workspace.Workspace,
	cmdRunner runner.CommandRunner,
	writer io.Writer,
) *Builder {
	return &Builder{
		kubeRoot:  kubeRoot,
		workspace: wsp,
		runner:    cmdRunner,
		writer:    writer,
	}
}

// WarmCache configures the remote bazel build cache. Failures are reported
// as warnings and never abort the run; a cold cache only makes the build
// slower.
func (b *Builder) WarmCache(ctx context.Context) {
	notify.Activityf(b.writer, "warming remote build cache")

	_, err := b.runner.Run(ctx, runner.Command{
		Name: "create_bazel_cache_rcs.sh",
		Dir:  b.kubeRoot,
		Env:  b.workspace.Environ(nil),
	})
	if err != nil {
		notify.Warningf(b.writer, "remote cache warmup failed, continuing without it: %v", err)
	}
}

// Build produces the node image and the test artifacts, then stages the
// e2e.test binary into its fixed location and records where bazel left the
// kubectl client. Any build error is fatal.
func (b *Builder) Build(ctx context.Context) error {
	notify.Activityf(b.writer, "building node image %s", NodeImage)

	_, err := b.runner.Run(ctx, runner.Command{
		Name: "kind",
		Args: []string{"build", "node-image", "--type=bazel", "-v", "1"},
		Dir:  b.kubeRoot,
		Env:  b.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to build node image: %w", err)
	}

	notify.Activityf(b.writer, "building test binaries")

	_, err = b.runner.Run(ctx, runner.Command{
		Name: "bazel",
		Args: []string{"build", "//cmd/kubectl", "//test/e2e:e2e.test"},
		Dir:  b.kubeRoot,
		Env:  b.workspace.Environ(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to build test binaries: %w", err)
	}

	err = b.stageTestBinary()
	if err != nil {
		return err
	}

	return b.locateKubectl()
}

// ReclaimMemory asks the kernel to flush and drop page caches after the
// build. CI hosts run close to their memory limit once bazel has finished;
// failures here are warnings only.
func (b *Builder) ReclaimMemory(ctx context.Context) {
	_, err := b.runner.Run(ctx, runner.Command{
		Name: "sync",
		Env:  b.workspace.Environ(nil),
	})
	if err != nil {
		notify.Warningf(b.writer, "sync failed: %v", err)
	}

	err = os.WriteFile("/proc/sys/vm/drop_caches", []byte("1"), 0o200)
	if err != nil {
		notify.Warningf(b.writer, "dropping page caches failed: %v", err)
	}
}

// StagedTestBinary returns the path the e2e.test binary was staged to, or
// empty before a successful Build.
func (b *Builder) StagedTestBinary() string { return b.stagedTestBinary }

// KubectlDir returns the bazel output directory containing the freshly
// built kubectl, or empty before a successful Build. Callers prepend it to
// the child-process PATH so the new client shadows any installed one.
func (b *Builder) KubectlDir() string { return b.kubectlDir }

// RemoveStagedTestBinary deletes the staged e2e.test copy. Used by cleanup;
// removing a never-staged binary is a no-op.
func (b *Builder) RemoveStagedTestBinary() error {
	if b.stagedTestBinary == "" {
		return nil
	}

	err := os.Remove(b.stagedTestBinary)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged test binary: %w", err)
	}

	return nil
}

// stageTestBinary copies the bazel-built e2e.test into _output/bin, the
// path external tooling discovers test binaries under.
func (b *Builder) stageTestBinary() error {
	source := filepath.Join(b.kubeRoot, bazelTestBinary)
	target := filepath.Join(b.kubeRoot, testBinaryRelPath)

	err := os.MkdirAll(filepath.Dir(target), dirPerms)
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read built test binary: %w", err)
	}

	err = os.WriteFile(target, data, binaryPerms)
	if err != nil {
		return fmt.Errorf("stage test binary: %w", err)
	}

	b.stagedTestBinary = target

	return nil
}

// locateKubectl finds the built kubectl under bazel-bin. Bazel's output
// layout varies by platform, so the binary is searched for rather than
// addressed directly.
func (b *Builder) locateKubectl() error {
	bazelBin := filepath.Join(b.kubeRoot, "bazel-bin")

	var kubectlPath string

	err := filepath.WalkDir(bazelBin, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !entry.IsDir() && entry.Name() == "kubectl" {
			kubectlPath = path

			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("locate kubectl under %s: %w", bazelBin, err)
	}

	if kubectlPath == "" {
		return fmt.Errorf("%w under %s", ErrKubectlNotFound, bazelBin)
	}

	b.kubectlDir = filepath.Dir(kubectlPath)

	return nil
}
