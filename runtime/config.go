package runtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/flowmesh/runtime/errors"
)

// Topology is the declarative, YAML-loadable description of a network:
// which component types to instantiate and under what names, which ports
// to wire together, and which input ports to seed with an initial message
// before the network starts. It mirrors the reference project's
// map-of-instances config shape, adapted from component configs keyed by
// name to FBP nodes/edges/initials keyed the same way.
type Topology struct {
	Nodes    []NodeSpec    `yaml:"nodes" json:"nodes"`
	Edges    []EdgeSpec    `yaml:"edges" json:"edges,omitempty"`
	Initials []InitialSpec `yaml:"initials" json:"initials,omitempty"`
}

// NodeSpec declares one component instance: Type names the registered
// factory, Name is the instance name it is stored under in the registry.
type NodeSpec struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// EdgeSpec declares one connection between a node's output port and
// another node's input port, both addressed by declaration-order index.
type EdgeSpec struct {
	From     string `yaml:"from" json:"from"`
	FromPort uint   `yaml:"from_port" json:"from_port"`
	To       string `yaml:"to" json:"to"`
	ToPort   uint   `yaml:"to_port" json:"to_port"`
}

// InitialSpec declares a value to inject into a node's input port before
// the network starts. Value is decoded by yaml.v3 into a generic any, so
// its dynamic type must match the target port's element type after
// decoding (e.g. a YAML integer decodes to int, not int64, on most
// platforms) or AddInitial reports TypeMismatch.
type InitialSpec struct {
	Node  string `yaml:"node" json:"node"`
	Port  uint   `yaml:"port" json:"port"`
	Value any    `yaml:"value" json:"value"`
}

// topologySchema is the JSON Schema a decoded Topology is validated
// against before any node is instantiated, so a malformed document fails
// fast with a structured error instead of a silent no-op deep inside
// AddEdge or AddInitial.
const topologySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["nodes"],
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "type"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1}
				}
			}
		},
		"edges": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["from", "to"],
				"properties": {
					"from": {"type": "string", "minLength": 1},
					"from_port": {"type": "integer", "minimum": 0},
					"to": {"type": "string", "minLength": 1},
					"to_port": {"type": "integer", "minimum": 0}
				}
			}
		},
		"initials": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["node"],
				"properties": {
					"node": {"type": "string", "minLength": 1},
					"port": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

// LoadTopology decodes a YAML topology document and validates its shape
// against topologySchema before returning it. It does not check that node
// types name a registered factory, or that edge/initial indices are in
// range — those are checked when the Topology is applied to a Registry,
// since that is the first point a factory set is available.
func LoadTopology(data []byte) (*Topology, error) {
	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, errors.WrapInvalid(err, "runtime", "LoadTopology", "parsing YAML")
	}

	if err := validateTopology(&topo); err != nil {
		return nil, err
	}

	return &topo, nil
}

func validateTopology(topo *Topology) error {
	docBytes, err := json.Marshal(topo)
	if err != nil {
		return errors.WrapInvalid(err, "runtime", "LoadTopology", "re-marshaling topology for schema validation")
	}

	schemaLoader := gojsonschema.NewStringLoader(topologySchema)
	documentLoader := gojsonschema.NewBytesLoader(docBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.WrapInvalid(err, "runtime", "LoadTopology", "running schema validation")
	}

	if !result.Valid() {
		msg := "topology failed schema validation:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf(" %s: %s;", desc.Field(), desc.Description())
		}
		return errors.WrapInvalid(errors.ErrSchemaRejected, "runtime", "LoadTopology", msg)
	}

	return nil
}

// Apply instantiates every node, wires every edge, and injects every
// initial message described by topo into registry, in that order. It
// returns the first error encountered; nodes already added before a
// failing step remain in the registry for the caller to clean up or
// inspect.
func (topo *Topology) Apply(ctx context.Context, registry *Registry) error {
	for _, node := range topo.Nodes {
		if _, err := registry.AddNode(node.Type, node.Name); err != nil {
			return errors.WrapInvalid(err, "Topology", "Apply", fmt.Sprintf("adding node %q", node.Name))
		}
	}

	for _, edge := range topo.Edges {
		if err := registry.AddEdge(edge.From, edge.FromPort, edge.To, edge.ToPort); err != nil {
			return errors.WrapInvalid(err, "Topology", "Apply",
				fmt.Sprintf("wiring %s[%d] -> %s[%d]", edge.From, edge.FromPort, edge.To, edge.ToPort))
		}
	}

	for _, initial := range topo.Initials {
		if err := registry.AddInitial(ctx, initial.Node, initial.Port, initial.Value); err != nil {
			return errors.WrapInvalid(err, "Topology", "Apply",
				fmt.Sprintf("seeding %s[%d]", initial.Node, initial.Port))
		}
	}

	return nil
}
