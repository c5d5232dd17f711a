package nodes

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fossabot/seot-agent/codec"
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
)

// tcpSinkArgs configures a tcpSink.
type tcpSinkArgs struct {
	Addr  string `json:"addr"`
	QSize int    `json:"qsize"`
}

// tcpSink dials addr on Startup and writes every envelope it receives onto
// that connection using the wire codec, standing in for the original's ZMQ
// PUSH node (spec SPEC_FULL.md §1). Grounded on
// original_source/seot/agent/sinks/zmq.py's connect-then-send lifecycle.
type tcpSink struct {
	*dataflow.Sink
	addr string

	mu   sync.Mutex
	conn net.Conn
	w    *codec.Writer
}

// NewTCPSink builds a tcpSink.
func NewTCPSink(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts tcpSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("TCPSink: missing required arg %q", "addr")
	}

	ts := &tcpSink{addr: opts.Addr}
	ts.Sink = dataflow.NewSink(name, "TCPSink", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if ts.w == nil {
			return fmt.Errorf("TCPSink: not connected")
		}
		return ts.w.Write(map[string]interface{}(env))
	})
	return ts, nil
}

// Startup dials addr, shadowing Sink's no-op default.
func (t *tcpSink) Startup(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("TCPSink: dialing %s: %w", t.addr, err)
	}
	t.mu.Lock()
	t.conn = conn
	t.w = codec.NewWriter(conn)
	t.mu.Unlock()
	return nil
}

// Cleanup closes the connection, shadowing Sink's no-op default.
func (t *tcpSink) Cleanup(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// tcpSourceArgs configures a tcpSource.
type tcpSourceArgs struct {
	Addr string `json:"addr"`
}

// tcpSource listens on addr and emits every envelope decoded from each
// accepted connection, standing in for the original's ZMQ PULL node (spec
// SPEC_FULL.md §1).
type tcpSource struct {
	*dataflow.Source
	addr string

	mu sync.Mutex
	ln net.Listener
}

// NewTCPSource builds a tcpSource.
func NewTCPSource(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts tcpSourceArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("TCPSource: missing required arg %q", "addr")
	}

	tsrc := &tcpSource{addr: opts.Addr}
	tsrc.Source = dataflow.NewSource(name, "TCPSource", bc.Identity, tsrc.run)
	return tsrc, nil
}

// Startup opens the listening socket, shadowing Source's no-op default.
func (t *tcpSource) Startup(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("TCPSource: listening on %s: %w", t.addr, err)
	}
	t.mu.Lock()
	t.ln = ln
	t.mu.Unlock()
	return nil
}

// Cleanup closes the listening socket, shadowing Source's no-op default.
func (t *tcpSource) Cleanup(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln == nil {
		return nil
	}
	return t.ln.Close()
}

// run accepts connections until ctx is cancelled, handling each on its own
// goroutine so a slow/stalled peer never blocks new connections.
func (t *tcpSource) run(ctx context.Context) error {
	log := seotlog.WithNode(t.Name(), "TCPSource")

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		ln := t.ln
		t.mu.Unlock()
		if ln != nil {
			ln.Close()
		}
	}()

	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		go t.handleConn(ctx, conn, log)
	}
}

func (t *tcpSource) handleConn(ctx context.Context, conn net.Conn, log zerolog.Logger) {
	defer conn.Close()
	framer := codec.NewFramer(conn)
	for {
		var raw map[string]interface{}
		if err := framer.Next(&raw); err != nil {
			if ctx.Err() == nil {
				log.Debug().Err(err).Msg("connection closed")
			}
			return
		}
		if err := t.Emit(ctx, dataflow.Envelope(raw)); err != nil {
			log.Error().Err(err).Msg("emit failed")
			return
		}
	}
}
