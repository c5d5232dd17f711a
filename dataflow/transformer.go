package dataflow

import (
	"context"
	"sync"
	"time"
)

// Transformer is embedded by concrete transformer node types. It is
// Source+Sink: envelopes are dequeued one at a time, handed to process,
// and whatever process returns is emitted downstream. A nil result drops
// the envelope (spec §4.1).
//
// Grounded on original_source/seot/agent/transformers/__init__.py's
// SimpleTransformer, which composes BaseSource and BaseSink the same way
// (dequeue, _process, _emit) — flattened here into one struct instead of
// Go's lack of a clean multiple-embedding diamond resolution.
type Transformer struct {
	*TaskLifecycle
	mu         sync.Mutex
	downstream []Node
	identity   Identity
	queue      envelopeQueue
}

// NewTransformer constructs a Transformer. qsize <= 0 means unbounded.
// process may return a nil Envelope to drop the input silently.
func NewTransformer(name, typeName string, identity Identity, qsize int, process func(ctx context.Context, env Envelope) (Envelope, error)) *Transformer {
	t := &Transformer{identity: identity, queue: newEnvelopeQueue(qsize)}
	t.TaskLifecycle = NewTaskLifecycle(name, typeName, func(ctx context.Context) error {
		for {
			env, err := t.queue.pop(ctx)
			if err != nil {
				return err
			}
			out, err := process(ctx, env)
			if err != nil {
				return err
			}
			if out == nil {
				continue
			}
			if err := t.emit(ctx, out); err != nil {
				return err
			}
		}
	})
	return t
}

// Write enqueues env for processing (sink side).
func (t *Transformer) Write(ctx context.Context, env Envelope) error {
	return t.queue.push(ctx, env)
}

// Connect appends n to this transformer's downstream set (source side).
func (t *Transformer) Connect(n Node) (Node, error) {
	if _, ok := n.(writer); !ok {
		return nil, ErrTypeMismatch
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.downstream = append(t.downstream, n)
	return n, nil
}

// NextNodes returns this transformer's downstream nodes.
func (t *Transformer) NextNodes() []Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Node, len(t.downstream))
	copy(out, t.downstream)
	return out
}

func (t *Transformer) emit(ctx context.Context, env Envelope) error {
	t.identity.Stamp(env, time.Now())
	return fanOutWrite(ctx, t.NextNodes(), env)
}

// Startup is a no-op default, shadowed by node types that need it.
func (t *Transformer) Startup(ctx context.Context) error { return nil }

// Cleanup is a no-op default, shadowed by node types that need it.
func (t *Transformer) Cleanup(ctx context.Context) error { return nil }
