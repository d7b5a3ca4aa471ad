// Package svc provides the service layer components for conformci.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the underlying processes/infrastructure.
//
// Subpackages:
//   - workspace: Per-run temporary directory and artifacts handling
//   - installer: Building the provisioning tool from source into the workspace
//   - builder: Bazel build of the node image and conformance test artifacts
//   - provisioner: Cluster provisioning for the conformance topology
//   - tester: Conformance suite execution through the e2e harness
//   - orchestrator: Stage sequencing and guaranteed teardown
package svc
