package bazelbuilder

import "errors"

// ErrKubectlNotFound is returned when the bazel output tree holds no kubectl binary.
var ErrKubectlNotFound = errors.New("no kubectl binary found")
