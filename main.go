// Package main is the entry point for the conformci application.
package main

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/devantler-tech/conformci/cmd"
	"github.com/devantler-tech/conformci/internal/buildmeta"
	"github.com/devantler-tech/conformci/pkg/ui/notify"
)

func main() {
	code := runSafely(os.Args[1:], execute, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

// runSafely turns a panic escaping run into an error message and a nonzero
// exit instead of a raw crash dump.
//
//nolint:nonamedreturns // The recover handler must be able to set the exit code.
func runSafely(args []string, run func([]string) int, errWriter io.Writer) (code int) {
	defer func() {
		if rec := recover(); rec != nil {
			notify.Errorf(errWriter, "panic: %v\n%s", rec, debug.Stack())

			code = 1
		}
	}()

	return run(args)
}

func execute(args []string) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)

	err := cmd.Execute(rootCmd)
	if err != nil {
		notify.Errorf(rootCmd.ErrOrStderr(), "%v", err)

		return 1
	}

	return 0
}
