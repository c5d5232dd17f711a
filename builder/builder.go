package builder

import (
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// connector is implemented by node types that can have outgoing edges
// (Source, Transformer), grounded on original_source's BaseSource.connect.
type connector interface {
	Connect(dataflow.Node) (dataflow.Node, error)
}

// GraphBuilder validates a declarative GraphSpec and materializes it into a
// live *dataflow.Graph (spec §4.4).
type GraphBuilder struct {
	reg *registry.Registry
	ctx registry.BuildContext
}

// New constructs a GraphBuilder resolving node types against reg and
// supplying ctx (agent identity, base context) to every constructor.
func New(reg *registry.Registry, ctx registry.BuildContext) *GraphBuilder {
	return &GraphBuilder{reg: reg, ctx: ctx}
}

// BuildJSON parses data as a JSON GraphSpec and builds it.
func (b *GraphBuilder) BuildJSON(data []byte) (*dataflow.Graph, error) {
	spec, err := ParseJSON(data)
	if err != nil {
		return nil, specErr("invalid JSON graph description: %v", err)
	}
	return b.Build(spec)
}

// BuildYAML parses data as a YAML GraphSpec and builds it.
func (b *GraphBuilder) BuildYAML(data []byte) (*dataflow.Graph, error) {
	spec, err := ParseYAML(data)
	if err != nil {
		return nil, specErr("invalid YAML graph description: %v", err)
	}
	return b.Build(spec)
}

// Build validates spec and, if valid, instantiates every node, wires the
// declared edges, and returns the resulting Graph (spec §4.4, construction
// steps 1-3).
func (b *GraphBuilder) Build(spec GraphSpec) (*dataflow.Graph, error) {
	if err := validate.Struct(spec); err != nil {
		return nil, specErr("graph description failed validation: %v", err)
	}

	seen := make(map[string]struct{}, len(spec.Nodes))
	for _, n := range spec.Nodes {
		if _, dup := seen[n.Name]; dup {
			return nil, specErr("duplicate node name %q", n.Name)
		}
		seen[n.Name] = struct{}{}

		if !b.reg.Has(n.Type) {
			return nil, specErr("node %q references unregistered type %q", n.Name, n.Type)
		}
	}

	// Step 1: instantiate every node.
	instances := make(map[string]dataflow.Node, len(spec.Nodes))
	order := make([]string, 0, len(spec.Nodes))
	for _, n := range spec.Nodes {
		ctor, _ := b.reg.Lookup(n.Type)
		node, err := ctor(n.Name, n.Args, b.ctx)
		if err != nil {
			return nil, specErr("failed to construct node %q of type %q: %v", n.Name, n.Type, err)
		}
		instances[n.Name] = node
		order = append(order, n.Name)
	}

	// Step 2: wire declared edges; track which nodes have been targeted so
	// the remainder becomes the source set.
	isTarget := make(map[string]bool, len(spec.Nodes))
	byName := make(map[string]NodeSpec, len(spec.Nodes))
	for _, n := range spec.Nodes {
		byName[n.Name] = n
	}

	for _, name := range order {
		n := byName[name]
		producer := instances[name]
		for _, target := range n.To {
			consumer, ok := instances[target]
			if !ok {
				// Unknown targets are logged and silently dropped (spec §4.4,
				// §9 open question: lenient behavior is preserved).
				seotlog.WithComponent("builder").Warn().
					Str("node", name).Str("target", target).
					Msg("dropping edge to unknown node")
				continue
			}
			c, ok := producer.(connector)
			if !ok {
				return nil, specErr("node %q of type %q cannot have outgoing edges", name, n.Type)
			}
			if _, err := c.Connect(consumer); err != nil {
				return nil, specErr("failed to connect %q -> %q: %v", name, target, err)
			}
			isTarget[target] = true
		}
	}

	// Step 3: nodes never targeted form the source set.
	var sources []dataflow.Node
	for _, name := range order {
		if !isTarget[name] {
			sources = append(sources, instances[name])
		}
	}

	g, err := dataflow.NewGraph(sources...)
	if err != nil {
		return nil, err
	}
	return g, nil
}
