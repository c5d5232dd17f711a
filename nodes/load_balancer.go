package nodes

import (
	"context"
	"sync"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

// writable is satisfied by any node that accepts envelopes, the same
// capability dataflow.Source.Connect requires of its targets.
type writable interface {
	dataflow.Node
	Write(ctx context.Context, env dataflow.Envelope) error
}

// LoadBalancer round-robins each received envelope to exactly one
// downstream sink, instead of fanning out to all of them the way
// Transformer does. A supplemented feature (spec.md's distillation dropped
// it), grounded directly on
// original_source/.../transformers/load_balancer.py.
type LoadBalancer struct {
	*dataflow.Sink

	mu         sync.Mutex
	downstream []writable
	next       int
}

// NewLoadBalancerNode constructs a LoadBalancer. qsize <= 0 means
// unbounded, matching every other sink-rooted node type.
func NewLoadBalancerNode(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts debugSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	lb := &LoadBalancer{}
	lb.Sink = dataflow.NewSink(name, "LoadBalancer", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		target := lb.pick()
		if target == nil {
			return nil
		}
		return target.Write(ctx, env)
	})
	return lb, nil
}

// Connect appends n to the round-robin rotation. Fails with
// ErrTypeMismatch if n does not accept envelopes (spec §4.1's
// TypeMismatch, reused here for the same connect-time contract).
func (lb *LoadBalancer) Connect(n dataflow.Node) (dataflow.Node, error) {
	w, ok := n.(writable)
	if !ok {
		return nil, dataflow.ErrTypeMismatch
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.downstream = append(lb.downstream, w)
	return n, nil
}

// NextNodes shadows Sink's empty default with the round-robin set, so the
// graph's topological sort and cycle detection still see these edges.
func (lb *LoadBalancer) NextNodes() []dataflow.Node {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	out := make([]dataflow.Node, len(lb.downstream))
	for i, w := range lb.downstream {
		out[i] = w
	}
	return out
}

// pick returns the next downstream target in rotation, or nil if none are
// connected (mirrors Source._emit's no-op-on-empty-downstream behavior).
func (lb *LoadBalancer) pick() writable {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if len(lb.downstream) == 0 {
		return nil
	}
	w := lb.downstream[lb.next%len(lb.downstream)]
	lb.next++
	return w
}
