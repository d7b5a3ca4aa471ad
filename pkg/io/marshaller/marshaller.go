// Package marshaller provides YAML serialization for Kubernetes-style API types.
package marshaller

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Marshaller serializes models of type T into a textual document.
type Marshaller[T any] interface {
	Marshal(model T) (string, error)
}

// YAMLMarshaller marshals models to YAML via the JSON tags sigs.k8s.io/yaml
// honors, matching how Kubernetes tooling serializes config documents.
type YAMLMarshaller[T any] struct{}

// NewYAMLMarshaller creates a YAML marshaller for type T.
func NewYAMLMarshaller[T any]() *YAMLMarshaller[T] {
	return &YAMLMarshaller[T]{}
}

// Marshal serializes the model to a YAML document.
func (*YAMLMarshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}

	return string(data), nil
}
