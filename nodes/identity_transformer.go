package nodes

import (
	"context"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

// NewIdentityTransformer builds a transformer that passes data through
// unchanged (spec SPEC_FULL.md §1), grounded on
// original_source/seot/agent/transformers/__init__.py's SimpleTransformer
// with a no-op process function.
func NewIdentityTransformer(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts debugSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	return dataflow.NewTransformer(name, "IdentityTransformer", bc.Identity, opts.QSize,
		func(ctx context.Context, env dataflow.Envelope) (dataflow.Envelope, error) {
			return env, nil
		}), nil
}
