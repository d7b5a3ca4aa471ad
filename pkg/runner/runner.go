// Package runner executes external processes while streaming and capturing
// their output. All pipeline stages that invoke external tooling (make,
// bazel, kind, the conformance runner) go through the CommandRunner
// interface so tests can substitute a fake and assert invocation order.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command describes a single external process invocation.
type Command struct {
	// Name is the executable to run, resolved against Env's PATH when Env
	// is set, otherwise the ambient PATH.
	Name string
	// Args are the process arguments, excluding the executable name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is the complete environment for the process. Nil inherits the
	// parent environment unchanged.
	Env []string
	// Stdin is an optional input stream, used to pipe documents into tools.
	Stdin io.Reader
}

// CommandResult captures the stdout and stderr collected during a process
// execution. Both fields contain the complete output, including any output
// produced before an error occurred.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes external commands while capturing their output.
// Implementations should display output in real-time while also capturing it
// for programmatic access via CommandResult.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// ProcessRunner executes commands via os/exec with console passthrough.
// Output is written to the configured stdout/stderr in real-time while also
// being captured for the result, matching the behavior of running the
// binary directly.
type ProcessRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewProcessRunner creates a runner for external processes.
//
// If stdout or stderr are nil, they default to os.Stdout and os.Stderr
// respectively.
func NewProcessRunner(stdout, stderr io.Writer) *ProcessRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &ProcessRunner{stdout: stdout, stderr: stderr}
}

// Run executes the command and waits for it to finish. The process inherits
// the parent environment unless cmd.Env is set, in which case cmd.Env is the
// complete environment. A nonzero exit status is returned as a wrapped error
// alongside the captured output.
func (r *ProcessRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Stdin = cmd.Stdin
	execCmd.Stdout = io.MultiWriter(&outBuf, r.stdout)
	execCmd.Stderr = io.MultiWriter(&errBuf, r.stderr)

	if cmd.Env != nil {
		execCmd.Env = cmd.Env
		resolveAgainstEnvPath(execCmd, cmd.Name, cmd.Env)
	}

	err := execCmd.Run()

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if err != nil {
		return result, fmt.Errorf("command %q failed: %w", cmd.Name, err)
	}

	return result, nil
}

// resolveAgainstEnvPath re-resolves the executable against the PATH entry of
// the child environment. os/exec looks names up in the parent's PATH and
// ignores Cmd.Env for resolution, which would let a system-installed tool
// shadow a freshly built one placed in a directory only the child PATH knows
// about. Names containing a path separator are run as given.
func resolveAgainstEnvPath(execCmd *exec.Cmd, name string, env []string) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return
	}

	pathValue := ""

	// Later entries win, matching os/exec environment semantics.
	for _, entry := range env {
		if value, ok := strings.CutPrefix(entry, "PATH="); ok {
			pathValue = value
		}
	}

	for _, dir := range filepath.SplitList(pathValue) {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, name)

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
			continue
		}

		execCmd.Path = candidate
		// Clear any lookup failure recorded against the parent PATH.
		execCmd.Err = nil

		return
	}
}
