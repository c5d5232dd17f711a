package nodes

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/stretchr/testify/require"
)

func TestSQLSinkInsertsRows(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")

	n, err := NewSQLSink("sql", map[string]interface{}{
		"dsn":   dsn,
		"table": "envelopes",
	}, registry.BuildContext{})
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, n.Startup(ctx))
	defer n.Cleanup(ctx)

	n.Start()
	defer n.Stop()

	writer := n.(interface {
		Write(context.Context, dataflow.Envelope) error
	})
	require.NoError(t, writer.Write(ctx, dataflow.Envelope{"v": 1}))

	ss := n.(*sqlSink)
	require.Eventually(t, func() bool {
		var count int
		row := ss.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM envelopes")
		if err := row.Scan(&count); err != nil {
			return false
		}
		return count == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNewSQLSinkRequiresDSNAndTable(t *testing.T) {
	_, err := NewSQLSink("sql", map[string]interface{}{}, registry.BuildContext{})
	require.Error(t, err)

	_, err = NewSQLSink("sql", map[string]interface{}{"dsn": "x.db"}, registry.BuildContext{})
	require.Error(t, err)
}
