package nodes

import (
	"context"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

// NewNullSink builds a sink that discards every envelope (spec
// SPEC_FULL.md §1: "testing/backpressure scenarios"), grounded on
// original_source/seot/agent/sinks/__init__.py's trivial sinks.
func NewNullSink(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts debugSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	return dataflow.NewSink(name, "NullSink", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		return nil
	}), nil
}
