package dataflow

import (
	"context"

	infinity "github.com/Code-Hex/go-infinity-channel"
)

// envelopeQueue is the FIFO backing a Sink (spec §4.1: "owns a bounded
// FIFO (default unbounded; capacity configurable)"). Two implementations
// satisfy it: an unbounded queue for the default case, and a plain buffered
// channel when a capacity is configured, so that push genuinely suspends
// the caller once the configured capacity is reached (spec §8, boundary
// case: "Sink queue full + source produces -> producer suspends"), while
// still honoring ctx cancellation so a node's Stop doesn't deadlock a
// blocked writer.
type envelopeQueue interface {
	push(ctx context.Context, env Envelope) error
	pop(ctx context.Context) (Envelope, error)
	closeQueue()
}

// unboundedQueue never blocks a writer; it is backed by
// Code-Hex/go-infinity-channel, which buffers internally and grows as
// needed. This is the zero-value (qsize == 0) behavior.
type unboundedQueue struct {
	ch *infinity.Channel
}

func newUnboundedQueue() *unboundedQueue {
	return &unboundedQueue{ch: infinity.NewChannel()}
}

func (q *unboundedQueue) push(ctx context.Context, env Envelope) error {
	select {
	case q.ch.In() <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *unboundedQueue) pop(ctx context.Context) (Envelope, error) {
	select {
	case v, ok := <-q.ch.Out():
		if !ok {
			return nil, context.Canceled
		}
		env, _ := v.(Envelope)
		return env, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *unboundedQueue) closeQueue() {
	q.ch.Close()
}

// boundedQueue is a fixed-capacity channel. push blocks once the channel is
// full, which is exactly the backpressure the spec calls for when a sink
// configures qsize.
type boundedQueue struct {
	ch chan Envelope
}

func newBoundedQueue(capacity int) *boundedQueue {
	return &boundedQueue{ch: make(chan Envelope, capacity)}
}

func (q *boundedQueue) push(ctx context.Context, env Envelope) error {
	select {
	case q.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *boundedQueue) pop(ctx context.Context) (Envelope, error) {
	select {
	case env, ok := <-q.ch:
		if !ok {
			return nil, context.Canceled
		}
		return env, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *boundedQueue) closeQueue() {
	close(q.ch)
}

func newEnvelopeQueue(capacity int) envelopeQueue {
	if capacity > 0 {
		return newBoundedQueue(capacity)
	}
	return newUnboundedQueue()
}
