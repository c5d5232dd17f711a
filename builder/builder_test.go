package builder

import (
	"context"
	"testing"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.Registry {
	r := registry.New()
	r.Register("TestSource", func(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
		return dataflow.NewSource(name, "TestSource", bc.Identity, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}), nil
	}, nil)
	r.Register("TestSink", func(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
		return dataflow.NewSink(name, "TestSink", 0, func(ctx context.Context, env dataflow.Envelope) error {
			return nil
		}), nil
	}, nil)
	r.Register("TestTransformer", func(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
		return dataflow.NewTransformer(name, "TestTransformer", bc.Identity, 0, func(ctx context.Context, env dataflow.Envelope) (dataflow.Envelope, error) {
			return env, nil
		}), nil
	}, nil)
	return r
}

func TestBuildSimpleSourceSinkGraph(t *testing.T) {
	b := New(testRegistry(), registry.BuildContext{})
	g, err := b.Build(GraphSpec{Nodes: []NodeSpec{
		{Name: "s", Type: "TestSource", To: []string{"d"}},
		{Name: "d", Type: "TestSink"},
	}})
	require.NoError(t, err)

	nodes, err := g.Nodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestBuildRejectsUnregisteredType(t *testing.T) {
	b := New(testRegistry(), registry.BuildContext{})
	_, err := b.Build(GraphSpec{Nodes: []NodeSpec{
		{Name: "s", Type: "DoesNotExist"},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphSpecInvalid)
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	b := New(testRegistry(), registry.BuildContext{})
	_, err := b.Build(GraphSpec{Nodes: []NodeSpec{
		{Name: "s", Type: "TestSource"},
		{Name: "s", Type: "TestSink"},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphSpecInvalid)
}

func TestBuildDropsEdgeToUnknownTarget(t *testing.T) {
	b := New(testRegistry(), registry.BuildContext{})
	g, err := b.Build(GraphSpec{Nodes: []NodeSpec{
		{Name: "s", Type: "TestSource", To: []string{"ghost"}},
	}})
	require.NoError(t, err)

	nodes, err := g.Nodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestBuildEmptySourceSetFails(t *testing.T) {
	b := New(testRegistry(), registry.BuildContext{})
	_, err := b.Build(GraphSpec{Nodes: []NodeSpec{
		{Name: "t1", Type: "TestTransformer", To: []string{"t2"}},
		{Name: "t2", Type: "TestTransformer", To: []string{"t1"}},
	}})
	// every node is targeted by another -> empty source set
	require.Error(t, err)
	assert.ErrorIs(t, err, dataflow.ErrEmptySourceSet)
}

func TestParseJSONAndYAML(t *testing.T) {
	jsonDoc := []byte(`{"nodes":[{"name":"s","type":"ConstSource","args":{"const":{"v":1}},"to":["d"]},{"name":"d","type":"DebugSink"}]}`)
	spec, err := ParseJSON(jsonDoc)
	require.NoError(t, err)
	assert.Len(t, spec.Nodes, 2)

	yamlDoc := []byte("nodes:\n  - name: s\n    type: ConstSource\n    to: [d]\n  - name: d\n    type: DebugSink\n")
	spec2, err := ParseYAML(yamlDoc)
	require.NoError(t, err)
	assert.Len(t, spec2.Nodes, 2)
}
