package nodes

import (
	"context"
	"fmt"
	"sync"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

// EnvelopeFunc is a named transformation a LambdaTransformer can apply. A
// nil return drops the envelope (spec §4.1: "Transformer... If _process
// returns no value (null), the envelope is dropped").
type EnvelopeFunc func(dataflow.Envelope) (dataflow.Envelope, error)

var (
	lambdaMu    sync.RWMutex
	lambdaFuncs = map[string]EnvelopeFunc{}
)

// RegisterFunc registers fn under name so job descriptions can reference it
// from a LambdaTransformer's `func` arg. Go has no equivalent of the
// original's ability to load an arbitrary callable by dotted path (spec
// §9's "dynamic plug-in discovery" REDESIGN FLAG applies here too), so
// callables are registered at compile time instead, the same way builtin
// node types are.
func RegisterFunc(name string, fn EnvelopeFunc) {
	lambdaMu.Lock()
	defer lambdaMu.Unlock()
	lambdaFuncs[name] = fn
}

func lookupFunc(name string) (EnvelopeFunc, bool) {
	lambdaMu.RLock()
	defer lambdaMu.RUnlock()
	fn, ok := lambdaFuncs[name]
	return fn, ok
}

type lambdaTransformerArgs struct {
	Func  string `json:"func"`
	QSize int    `json:"qsize"`
}

// NewLambdaTransformer builds a transformer that applies the registered Go
// func named by args.Func to each envelope (spec SPEC_FULL.md §1).
func NewLambdaTransformer(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts lambdaTransformerArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	if opts.Func == "" {
		return nil, fmt.Errorf("LambdaTransformer: missing required arg %q", "func")
	}
	fn, ok := lookupFunc(opts.Func)
	if !ok {
		return nil, fmt.Errorf("LambdaTransformer: no function registered under name %q", opts.Func)
	}
	return dataflow.NewTransformer(name, "LambdaTransformer", bc.Identity, opts.QSize,
		func(ctx context.Context, env dataflow.Envelope) (dataflow.Envelope, error) {
			return fn(env)
		}), nil
}
