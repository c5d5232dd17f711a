package dataflow

import (
	"context"
	"sync"
	"time"
)

// Source is embedded by concrete source node types. It owns the downstream
// fan-out set and implements envelope stamping (spec §4.1, §3).
//
// Grounded on original_source/seot/agent/sources/__init__.py's BaseSource:
// connect() appends to an outputs list, _emit() stamps meta then awaits a
// concurrent write to every output.
type Source struct {
	*TaskLifecycle
	mu         sync.Mutex
	downstream []Node
	identity   Identity
}

// writer is satisfied by any node that accepts envelopes — Sink and
// Transformer both do. It's the minimal surface Connect and fanOutWrite
// need from a downstream node.
type writer interface {
	Node
	Write(ctx context.Context, env Envelope) error
}

// NewSource constructs a Source whose work loop is run. run typically
// calls the returned *Source's Emit method to publish envelopes downstream.
func NewSource(name, typeName string, identity Identity, run func(ctx context.Context) error) *Source {
	s := &Source{identity: identity}
	s.TaskLifecycle = NewTaskLifecycle(name, typeName, run)
	return s
}

// Connect appends n to this source's downstream set. Fails with
// ErrTypeMismatch if n is not sink-capable (spec §4.1).
func (s *Source) Connect(n Node) (Node, error) {
	if _, ok := n.(writer); !ok {
		return nil, ErrTypeMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream = append(s.downstream, n)
	return n, nil
}

// NextNodes returns this source's downstream nodes in connection order.
func (s *Source) NextNodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, len(s.downstream))
	copy(out, s.downstream)
	return out
}

// Emit stamps env with identity/location/timestamp metadata if it doesn't
// already carry a meta sub-mapping (idempotent, spec §8), then fans it out
// to every downstream sink concurrently. A no-op if there are no
// downstream nodes.
func (s *Source) Emit(ctx context.Context, env Envelope) error {
	s.identity.Stamp(env, time.Now())
	return fanOutWrite(ctx, s.NextNodes(), env)
}

// Startup is a no-op default; node types that acquire resources (opening a
// listening socket, connecting a client) define their own Startup,
// shadowing this one.
func (s *Source) Startup(ctx context.Context) error { return nil }

// Cleanup is a no-op default, shadowed the same way as Startup.
func (s *Source) Cleanup(ctx context.Context) error { return nil }
