package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	masterTaintKey       = "node-role.kubernetes.io/master"
	controlPlaneTaintKey = "node-role.kubernetes.io/control-plane"
)

// CountWorkerNodes returns the number of schedulable worker nodes in the
// cluster. A node counts as a worker when none of its taints carry a
// control-plane role key.
func CountWorkerNodes(ctx context.Context, client kubernetes.Interface) (int, error) {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to list nodes: %w", err)
	}

	workers := 0

	for _, node := range nodes.Items {
		if isWorkerNode(node.Spec.Taints) {
			workers++
		}
	}

	return workers, nil
}

func isWorkerNode(taints []corev1.Taint) bool {
	for _, taint := range taints {
		if taint.Key == masterTaintKey || taint.Key == controlPlaneTaintKey {
			return false
		}
	}

	return true
}
