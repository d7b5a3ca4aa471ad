// Package k8s provides the client-go helpers the conformance pipeline needs
// once a cluster is up: REST config loading, worker-node counting via
// taints, and the CoreDNS reconfiguration for IPv6 CI environments.
package k8s
