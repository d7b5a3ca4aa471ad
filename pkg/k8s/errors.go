package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")

// ErrCorefileMissing is returned when the CoreDNS ConfigMap has no Corefile entry.
var ErrCorefileMissing = errors.New("coredns ConfigMap has no Corefile data")
