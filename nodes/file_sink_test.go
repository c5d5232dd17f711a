package nodes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWritesSequentialFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "out")

	n, err := NewFileSink("fs", map[string]interface{}{"dir": nested}, registry.BuildContext{})
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, n.Startup(ctx))
	defer n.Cleanup(ctx)

	n.Start()

	writer := n.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	require.NoError(t, writer.Write(ctx, dataflow.Envelope{"v": 1}))
	require.NoError(t, writer.Write(ctx, dataflow.Envelope{"v": 2}))

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(nested)
		return err == nil && len(entries) == 2
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, n.Stop().Wait(ctx))
}

func TestNewFileSinkRequiresDir(t *testing.T) {
	_, err := NewFileSink("fs", map[string]interface{}{}, registry.BuildContext{})
	require.Error(t, err)
}
