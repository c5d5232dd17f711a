package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

// constSourceArgs configures ConstSource (spec SPEC_FULL.md §1: "emits a
// fixed, configured value on an interval").
type constSourceArgs struct {
	Const    map[string]interface{} `json:"const"`
	Interval float64                `json:"interval"`
}

// NewConstSource builds a source that emits a copy of args.Const every
// args.Interval seconds (default 1s), grounded on
// original_source/seot/agent/sources's interval-driven sources.
func NewConstSource(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts constSourceArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, fmt.Errorf("ConstSource: invalid args: %w", err)
	}
	if opts.Const == nil {
		return nil, fmt.Errorf("ConstSource: missing required arg %q", "const")
	}
	interval := time.Duration(opts.Interval * float64(time.Second))
	if interval <= 0 {
		interval = time.Second
	}

	var src *dataflow.Source
	run := func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				env := make(dataflow.Envelope, len(opts.Const))
				for k, v := range opts.Const {
					env[k] = v
				}
				if err := src.Emit(ctx, env); err != nil {
					return err
				}
			}
		}
	}
	src = dataflow.NewSource(name, "ConstSource", bc.Identity, run)
	return src, nil
}
