package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

type fileSinkArgs struct {
	Dir   string `json:"dir"`
	QSize int    `json:"qsize"`
}

// fileSink writes each envelope's JSON-encoded payload to sequential files
// under dir, creating dir on Startup. Grounded on
// original_source/seot/agent/sinks/fs.py.
type fileSink struct {
	*dataflow.Sink
	dir string
	seq int64
}

// NewFileSink builds a fileSink (spec SPEC_FULL.md §1).
func NewFileSink(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts fileSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("FileSink: missing required arg %q", "dir")
	}

	fs := &fileSink{dir: opts.Dir}
	fs.Sink = dataflow.NewSink(name, "FileSink", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		data, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("FileSink: encoding envelope: %w", err)
		}
		n := atomic.AddInt64(&fs.seq, 1)
		path := filepath.Join(fs.dir, fmt.Sprintf("%s-%06d.json", name, n))
		return os.WriteFile(path, data, 0o600)
	})
	return fs, nil
}

// Startup ensures dir exists before the work loop starts writing into it,
// shadowing Sink's no-op default.
func (f *fileSink) Startup(ctx context.Context) error {
	return os.MkdirAll(f.dir, 0o700)
}
