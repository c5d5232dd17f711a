package nodes

import (
	"context"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
)

// debugSinkArgs configures DebugSink's optional bounded queue (spec §4.1:
// "capacity configurable").
type debugSinkArgs struct {
	QSize int `json:"qsize"`
}

// NewDebugSink builds a sink that logs every received envelope via the
// structured logger (spec SPEC_FULL.md §1), grounded on
// original_source/seot/agent/sinks/debug.py.
func NewDebugSink(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts debugSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	log := seotlog.WithNode(name, "DebugSink")
	return dataflow.NewSink(name, "DebugSink", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		log.Info().Interface("envelope", map[string]interface{}(env)).Msg("received envelope")
		return nil
	}), nil
}
