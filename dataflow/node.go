package dataflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fossabot/seot-agent/seotlog"
)

// Node is the capability every dataflow node satisfies (spec §4.1). Source,
// Sink and Transformer are roles composed on top of it, not subtypes of a
// class hierarchy — a plain Go interface plus embeddable mixins, per the
// REDESIGN FLAGS note on replacing inheritance with a capability interface.
type Node interface {
	// Name is this node's human label, defaulting to its registered type
	// name.
	Name() string

	// Start launches the node's single long-running task and returns
	// immediately with a Handle that completes when the task terminates.
	// Returns ErrAlreadyRunning if the node is already running.
	Start() *Handle

	// Stop requests cooperative cancellation of the running task and
	// returns immediately with a Handle that completes once the task has
	// acknowledged the cancellation. Returns ErrNotRunning if the node is
	// not running.
	Stop() *Handle

	// Running reports whether the node's task exists and has not yet
	// completed.
	Running() bool

	// Startup acquires external resources before Start is ever called.
	// At-most-once; may fail.
	Startup(ctx context.Context) error

	// Cleanup releases everything Startup acquired, whether or not Start
	// ever ran. At-most-once; must not propagate secondary errors fatally —
	// implementations log-and-continue internally.
	Cleanup(ctx context.Context) error

	// NextNodes lists this node's downstream nodes, empty for pure sinks.
	NextNodes() []Node
}

// TaskLifecycle implements the Start/Stop/Running bookkeeping shared by
// every node variant (spec §4.1, §5). It is embedded by Source, Sink and
// Transformer (not used directly by node authors), which supply the actual
// work loop via runFunc, set once at construction.
//
// Grounded on original_source/seot/agent/node.py: a task handle that exists
// iff the node is running, idempotence checks on Start/Stop, and Stop
// acting by cancellation rather than a separate signal.
type TaskLifecycle struct {
	typeName string
	name     string
	runFunc  func(ctx context.Context) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	running int32
	handle  *Handle
}

// NewTaskLifecycle constructs a TaskLifecycle. Not exported for direct use
// by node implementations — use NewSource/NewSink/NewTransformer instead.
func NewTaskLifecycle(name, typeName string, runFunc func(context.Context) error) *TaskLifecycle {
	if name == "" {
		name = typeName
	}
	return &TaskLifecycle{name: name, typeName: typeName, runFunc: runFunc}
}

func (l *TaskLifecycle) Name() string { return l.name }

func (l *TaskLifecycle) Running() bool {
	return atomic.LoadInt32(&l.running) == 1
}

func (l *TaskLifecycle) Start() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Running() {
		return errHandle(ErrAlreadyRunning)
	}

	log := seotlog.WithNode(l.name, l.typeName)
	log.Info().Msg("starting node")

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	atomic.StoreInt32(&l.running, 1)

	h, complete := newHandle()
	l.handle = h

	go func() {
		err := l.runFunc(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		atomic.StoreInt32(&l.running, 0)
		if err != nil {
			log.Error().Err(err).Msg("node task terminated with error")
		} else {
			log.Info().Msg("node task terminated")
		}
		complete(err)
	}()

	return h
}

func (l *TaskLifecycle) Stop() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.Running() {
		return errHandle(ErrNotRunning)
	}

	seotlog.WithNode(l.name, l.typeName).Info().Msg("stopping node")

	l.cancel()
	return l.handle
}
