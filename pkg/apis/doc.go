// Package apis provides API type definitions for conformci resources.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - conformance: Run configuration types for conformance CI runs
//
// The API types are designed to be serializable to YAML and support
// declarative configuration workflows.
package apis
