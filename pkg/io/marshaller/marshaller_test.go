package marshaller_test

import (
	"testing"

	"github.com/devantler-tech/conformci/pkg/io/marshaller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
)

func TestYAMLMarshaller_MarshalKindCluster(t *testing.T) {
	t.Parallel()

	cluster := &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Nodes: []v1alpha4.Node{
			{Role: v1alpha4.ControlPlaneRole},
			{Role: v1alpha4.WorkerRole},
			{Role: v1alpha4.WorkerRole},
		},
		Networking: v1alpha4.Networking{IPFamily: v1alpha4.IPv6Family},
	}

	yamlMarshaller := marshaller.NewYAMLMarshaller[*v1alpha4.Cluster]()

	document, err := yamlMarshaller.Marshal(cluster)
	require.NoError(t, err)

	assert.Contains(t, document, "kind: Cluster")
	assert.Contains(t, document, "apiVersion: kind.x-k8s.io/v1alpha4")
	assert.Contains(t, document, "role: control-plane")
	assert.Contains(t, document, "ipFamily: ipv6")
}

func TestYAMLMarshaller_MarshalPlainStruct(t *testing.T) {
	t.Parallel()

	type model struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	yamlMarshaller := marshaller.NewYAMLMarshaller[model]()

	document, err := yamlMarshaller.Marshal(model{Name: "workers", Count: 2})
	require.NoError(t, err)

	assert.Equal(t, "count: 2\nname: workers\n", document)
}
