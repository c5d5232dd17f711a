package dataflow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sink is embedded by concrete sink node types. It owns the bounded/
// unbounded FIFO described in spec §4.1 and drives a work loop that
// dequeues one envelope at a time and hands it to process.
//
// Grounded on original_source/seot/agent/sinks/__init__.py's BaseSink:
// write() enqueues, _run() loops dequeue-then-process.
type Sink struct {
	*TaskLifecycle
	queue envelopeQueue
}

// NewSink constructs a Sink. qsize <= 0 means unbounded (spec §4.1 default);
// qsize > 0 makes Write block once that many envelopes are queued.
func NewSink(name, typeName string, qsize int, process func(ctx context.Context, env Envelope) error) *Sink {
	s := &Sink{queue: newEnvelopeQueue(qsize)}
	s.TaskLifecycle = NewTaskLifecycle(name, typeName, func(ctx context.Context) error {
		for {
			env, err := s.queue.pop(ctx)
			if err != nil {
				return err
			}
			if err := process(ctx, env); err != nil {
				return err
			}
		}
	})
	return s
}

// Write enqueues env, suspending the caller if the queue is full (spec
// §4.1, §8).
func (s *Sink) Write(ctx context.Context, env Envelope) error {
	return s.queue.push(ctx, env)
}

// NextNodes is empty for a pure sink.
func (s *Sink) NextNodes() []Node { return nil }

// Startup is a no-op default; node types that acquire resources (TCP
// listeners, database clients) define their own Startup, shadowing this
// one.
func (s *Sink) Startup(ctx context.Context) error { return nil }

// Cleanup is a no-op default, shadowed the same way as Startup.
func (s *Sink) Cleanup(ctx context.Context) error { return nil }

// fanOutWrite concurrently writes env to every downstream sink, returning
// on the first error or once all writes succeed (spec §5: "_emit fan-out
// (join of concurrent write calls)"; no cross-sink ordering is guaranteed
// across different downstream edges).
func fanOutWrite(ctx context.Context, downstream []Node, env Envelope) error {
	if len(downstream) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range downstream {
		w, ok := n.(writer)
		if !ok {
			continue
		}
		g.Go(func() error {
			return w.Write(gctx, env)
		})
	}
	return g.Wait()
}
