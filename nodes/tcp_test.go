package nodes

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/stretchr/testify/require"
)

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestTCPSourceSinkRoundTrip(t *testing.T) {
	addr := freeTCPAddr(t)
	ctx := t.Context()

	srcNode, err := NewTCPSource("src", map[string]interface{}{"addr": addr}, registry.BuildContext{Identity: dataflow.Identity{AgentID: "a1"}})
	require.NoError(t, err)
	require.NoError(t, srcNode.Startup(ctx))
	defer srcNode.Cleanup(ctx)

	received := make(chan dataflow.Envelope, 1)

	src := srcNode.(*tcpSource)
	capture := dataflow.NewSink("capture", "capture", 0, func(ctx context.Context, env dataflow.Envelope) error {
		received <- env
		return nil
	})
	_, err = src.Connect(capture)
	require.NoError(t, err)
	capture.Start()
	defer capture.Stop()

	srcNode.Start()
	defer srcNode.Stop()

	sinkN, err := NewTCPSink("out", map[string]interface{}{"addr": addr}, registry.BuildContext{})
	require.NoError(t, err)
	require.NoError(t, sinkN.Startup(ctx))
	defer sinkN.Cleanup(ctx)
	sinkN.Start()
	defer sinkN.Stop()

	writer := sinkN.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	require.NoError(t, writer.Write(ctx, dataflow.Envelope{"hello": "world"}))

	select {
	case env := <-received:
		require.Equal(t, "world", env["hello"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope round trip")
	}
}

func TestNewTCPSinkRequiresAddr(t *testing.T) {
	_, err := NewTCPSink("s", map[string]interface{}{}, registry.BuildContext{})
	require.Error(t, err)
}

func TestNewTCPSourceRequiresAddr(t *testing.T) {
	_, err := NewTCPSource("s", map[string]interface{}{}, registry.BuildContext{})
	require.Error(t, err)
}
