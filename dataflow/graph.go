package dataflow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fossabot/seot-agent/seotlog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/fossabot/seot-agent/dataflow")

// Graph is a directed acyclic graph of dataflow nodes (spec §4.2). It is
// constructed from one or more source nodes; traversal (and therefore
// cycle detection) is deferred until a lifecycle method actually needs the
// node set, matching original_source/seot/agent/graph.py's Graph, which
// computes nodes() lazily from topological_sort rather than at
// construction time.
type Graph struct {
	sources []Node

	mu             sync.Mutex
	running        int32
	supervisorDone chan struct{}
	err            error
}

// NewGraph constructs a Graph from one or more source nodes. Fails with
// ErrEmptySourceSet if given none (spec §8, boundary case).
func NewGraph(sources ...Node) (*Graph, error) {
	if len(sources) == 0 {
		return nil, ErrEmptySourceSet
	}
	g := &Graph{sources: make([]Node, len(sources))}
	copy(g.sources, sources)
	return g, nil
}

// Nodes returns every node reachable from the source set in topological
// order (producers before consumers). Fails with ErrGraphContainsCycle if
// the reachable set is not a DAG.
func (g *Graph) Nodes() ([]Node, error) {
	return topoSort(g.sources)
}

// Running reports whether any reachable node is currently running (spec
// §3: "running is true iff any reachable node is running"). Once Start has
// launched the supervisor goroutine this tracks the supervisor's own
// lifetime, which is a tighter invariant: see state machine in spec §4.2.
func (g *Graph) Running() bool {
	return atomic.LoadInt32(&g.running) == 1
}

// Err returns the error (if any) the last run terminated with, once the
// supervisor goroutine spawned by Start has completed.
func (g *Graph) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// topoSort performs a three-colour DFS: white (unvisited, the implicit
// zero value), gray (pending, on the current path), black (permanently
// done). Visiting a gray node means the reachable set contains a cycle.
//
// Grounded on original_source/seot/agent/graph.py:_topological_sort and
// dataflow.py:_topological_sort, both of which use the identical
// pending/permanent/result-deque algorithm.
func topoSort(sources []Node) ([]Node, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Node]int)
	var order []Node

	var visit func(n Node) error
	visit = func(n Node) error {
		switch color[n] {
		case gray:
			return ErrGraphContainsCycle
		case black:
			return nil
		}
		color[n] = gray
		for _, next := range n.NextNodes() {
			if err := visit(next); err != nil {
				return err
			}
		}
		color[n] = black
		order = append(order, n)
		return nil
	}

	for _, s := range sources {
		if err := visit(s); err != nil {
			return nil, err
		}
	}

	// order is currently consumers-before-producers (DFS postorder);
	// reverse it so producers precede consumers, as Startup requires.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Startup concurrently invokes Startup on every reachable node. The first
// failure cancels the context the still-pending Startups run under; once
// every Startup has returned, it invokes Cleanup on every node whose Startup
// succeeded (best-effort) and returns a GraphStartupFailedError wrapping the
// original cause (spec §4.2, §7).
func (g *Graph) Startup(ctx context.Context) error {
	nodes, err := g.Nodes()
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "dataflow.Graph.Startup")
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		node Node
		err  error
	}
	results := make(chan outcome, len(nodes))
	for _, n := range nodes {
		n := n
		go func() {
			results <- outcome{node: n, err: n.Startup(ctx)}
		}()
	}

	var completed []Node
	var failure error
	for range nodes {
		r := <-results
		if r.err != nil {
			if failure == nil {
				failure = &StartupError{NodeName: r.node.Name(), Cause: r.err}
				cancel()
			}
			continue
		}
		completed = append(completed, r.node)
	}

	if failure != nil {
		cleanupCtx := context.Background()
		var wg sync.WaitGroup
		for _, n := range completed {
			wg.Add(1)
			go func(n Node) {
				defer wg.Done()
				if err := n.Cleanup(cleanupCtx); err != nil {
					seotlog.WithNode(n.Name(), "").Warn().Err(err).
						Msg("compensating cleanup failed after startup error")
				}
			}(n)
		}
		wg.Wait()
		return &GraphStartupFailedError{Cause: failure}
	}

	return nil
}

// Start concurrently invokes each node's Start, then launches a
// supervisor goroutine that waits for either all node tasks to finish or
// the first one to fail. On failure it stops every other still-running
// node and records the error (spec §4.2: "return on first exception"
// semantics, mirroring asyncio.wait(..., return_when=FIRST_EXCEPTION) in
// original_source/seot/agent/graph.py:Graph.start). doneCB, if non-nil, is
// invoked once the supervisor goroutine terminates.
func (g *Graph) Start(doneCB func(*Graph)) error {
	nodes, err := g.Nodes()
	if err != nil {
		return err
	}

	handles := make(map[Node]*Handle, len(nodes))
	for _, n := range nodes {
		handles[n] = n.Start()
	}

	done := make(chan struct{})
	g.mu.Lock()
	g.supervisorDone = done
	g.mu.Unlock()
	atomic.StoreInt32(&g.running, 1)

	go func() {
		defer close(done)

		type result struct {
			node Node
			err  error
		}
		resCh := make(chan result, len(handles))
		for n, h := range handles {
			n, h := n, h
			go func() {
				<-h.Done()
				resCh <- result{node: n, err: h.Err()}
			}()
		}

		var recorded error
		for remaining := len(handles); remaining > 0; remaining-- {
			r := <-resCh
			if r.err != nil {
				recorded = &NodeRuntimeError{NodeName: r.node.Name(), Cause: r.err}
				break
			}
		}

		if recorded != nil {
			seotlog.Logger.Error().Err(recorded).Msg("graph crashed")
			for n := range handles {
				if n.Running() {
					n.Stop()
				}
			}
		}

		atomic.StoreInt32(&g.running, 0)
		g.mu.Lock()
		g.err = recorded
		g.mu.Unlock()

		if doneCB != nil {
			doneCB(g)
		}
	}()

	return nil
}

// Stop is a no-op if the graph is not running. Otherwise it requests Stop
// on every currently-running node, waits for all of them to acknowledge,
// then waits for the supervisor goroutine launched by Start so any doneCB
// completes before Stop returns (spec §4.2).
func (g *Graph) Stop(ctx context.Context) error {
	if !g.Running() {
		return nil
	}

	_, span := tracer.Start(ctx, "dataflow.Graph.Stop")
	defer span.End()

	nodes, err := g.Nodes()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, n := range nodes {
		if !n.Running() {
			continue
		}
		h := n.Stop()
		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			_ = h.Wait(context.Background())
		}(h)
	}
	wg.Wait()

	g.mu.Lock()
	done := g.supervisorDone
	g.mu.Unlock()
	if done != nil {
		<-done
	}
	return nil
}

// Cleanup concurrently invokes Cleanup on every reachable node. Individual
// failures are logged but never fail the call (spec §4.2, §7).
func (g *Graph) Cleanup(ctx context.Context) error {
	nodes, err := g.Nodes()
	if err != nil {
		return err
	}

	_, span := tracer.Start(ctx, "dataflow.Graph.Cleanup")
	defer span.End()

	var wg sync.WaitGroup
	for _, n := range nodes {
		wg.Add(1)
		go func(n Node) {
			defer wg.Done()
			if err := n.Cleanup(ctx); err != nil {
				seotlog.WithNode(n.Name(), "").Warn().Err(err).Msg("failed to clean up node")
			}
		}(n)
	}
	wg.Wait()
	return nil
}
