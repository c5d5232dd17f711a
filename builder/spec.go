// Package builder implements the GraphBuilder of spec §4.4: it validates a
// declarative graph description and materializes it into a live
// *dataflow.Graph, resolving node types through a registry.Registry.
package builder

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// NodeSpec describes one node within a GraphSpec (spec §4.4).
type NodeSpec struct {
	Name string                 `json:"name" yaml:"name" validate:"required"`
	Type string                 `json:"type" yaml:"type" validate:"required"`
	Args map[string]interface{} `json:"args" yaml:"args"`
	To   []string               `json:"to" yaml:"to"`
}

// GraphSpec is the top-level job description the coordinator sends (spec
// §4.4): `{"nodes": [...]}`.
type GraphSpec struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
}

// ParseJSON decodes a GraphSpec from JSON bytes.
func ParseJSON(data []byte) (GraphSpec, error) {
	var spec GraphSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return GraphSpec{}, err
	}
	return spec, nil
}

// ParseYAML decodes a GraphSpec from YAML bytes.
func ParseYAML(data []byte) (GraphSpec, error) {
	var spec GraphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return GraphSpec{}, err
	}
	return spec, nil
}
