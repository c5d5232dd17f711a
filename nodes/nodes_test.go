package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/stretchr/testify/require"
)

func TestConstSourceEmitsOnInterval(t *testing.T) {
	n, err := NewConstSource("c", map[string]interface{}{
		"const":    map[string]interface{}{"v": 1},
		"interval": 0.01,
	}, registry.BuildContext{Identity: dataflow.Identity{AgentID: "a1"}})
	require.NoError(t, err)

	src := n.(*dataflow.Source)
	received := make(chan dataflow.Envelope, 1)
	capture := dataflow.NewSink("capture", "capture", 0, func(ctx context.Context, env dataflow.Envelope) error {
		select {
		case received <- env:
		default:
		}
		return nil
	})
	_, err = src.Connect(capture)
	require.NoError(t, err)
	capture.Start()
	defer capture.Stop()

	n.Start()
	defer n.Stop()

	select {
	case env := <-received:
		require.Equal(t, float64(1), env["v"])
		require.True(t, env.HasMeta())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for emitted envelope")
	}
}

func TestNewConstSourceRequiresConst(t *testing.T) {
	_, err := NewConstSource("c", map[string]interface{}{}, registry.BuildContext{})
	require.Error(t, err)
}

func TestDebugSinkAcceptsEnvelopes(t *testing.T) {
	n, err := NewDebugSink("d", nil, registry.BuildContext{})
	require.NoError(t, err)
	n.Start()
	defer n.Stop()

	writer := n.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	require.NoError(t, writer.Write(t.Context(), dataflow.Envelope{"x": 1}))
}

func TestNullSinkDiscardsEverything(t *testing.T) {
	n, err := NewNullSink("n", nil, registry.BuildContext{})
	require.NoError(t, err)
	n.Start()
	defer n.Stop()

	writer := n.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	require.NoError(t, writer.Write(t.Context(), dataflow.Envelope{"x": 1}))
}

func TestIdentityTransformerPassesThrough(t *testing.T) {
	n, err := NewIdentityTransformer("id", nil, registry.BuildContext{})
	require.NoError(t, err)

	tr := n.(*dataflow.Transformer)
	received := make(chan dataflow.Envelope, 1)
	capture := dataflow.NewSink("capture", "capture", 0, func(ctx context.Context, env dataflow.Envelope) error {
		received <- env
		return nil
	})
	_, err = tr.Connect(capture)
	require.NoError(t, err)
	capture.Start()
	defer capture.Stop()

	ctx := t.Context()
	n.Start()
	defer n.Stop()

	require.NoError(t, tr.Write(ctx, dataflow.Envelope{"v": 42}))
	select {
	case env := <-received:
		require.Equal(t, 42, env["v"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for passthrough envelope")
	}
}

func TestLambdaTransformerAppliesRegisteredFunc(t *testing.T) {
	RegisterFunc("test-double", func(env dataflow.Envelope) (dataflow.Envelope, error) {
		out := dataflow.Envelope{}
		for k, v := range env {
			out[k] = v
		}
		out["doubled"] = true
		return out, nil
	})

	n, err := NewLambdaTransformer("lt", map[string]interface{}{"func": "test-double"}, registry.BuildContext{})
	require.NoError(t, err)

	tr := n.(*dataflow.Transformer)
	received := make(chan dataflow.Envelope, 1)
	capture := dataflow.NewSink("capture", "capture", 0, func(ctx context.Context, env dataflow.Envelope) error {
		received <- env
		return nil
	})
	_, err = tr.Connect(capture)
	require.NoError(t, err)
	capture.Start()
	defer capture.Stop()

	ctx := t.Context()
	n.Start()
	defer n.Stop()

	require.NoError(t, tr.Write(ctx, dataflow.Envelope{"v": 1}))
	select {
	case env := <-received:
		require.Equal(t, true, env["doubled"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transformed envelope")
	}
}

func TestNewLambdaTransformerRejectsUnknownFunc(t *testing.T) {
	_, err := NewLambdaTransformer("lt", map[string]interface{}{"func": "does-not-exist"}, registry.BuildContext{})
	require.Error(t, err)
}

func TestLoadBalancerRoundRobins(t *testing.T) {
	n, err := NewLoadBalancerNode("lb", nil, registry.BuildContext{})
	require.NoError(t, err)
	lb := n.(*LoadBalancer)

	var got1, got2 []dataflow.Envelope
	recorder := func(dst *[]dataflow.Envelope) func(context.Context, dataflow.Envelope) error {
		return func(ctx context.Context, env dataflow.Envelope) error {
			*dst = append(*dst, env)
			return nil
		}
	}
	d1 := dataflow.NewSink("d1", "d1", 0, recorder(&got1))
	d2 := dataflow.NewSink("d2", "d2", 0, recorder(&got2))
	_, err = lb.Connect(d1)
	require.NoError(t, err)
	_, err = lb.Connect(d2)
	require.NoError(t, err)
	d1.Start()
	defer d1.Stop()
	d2.Start()
	defer d2.Stop()

	ctx := t.Context()
	n.Start()
	defer n.Stop()

	writer := n.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	for i := 0; i < 4; i++ {
		require.NoError(t, writer.Write(ctx, dataflow.Envelope{"i": i}))
	}

	require.Eventually(t, func() bool {
		return len(got1)+len(got2) == 4
	}, time.Second, 10*time.Millisecond)
	require.Len(t, got1, 2)
	require.Len(t, got2, 2)
}
