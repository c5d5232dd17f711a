package supervisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/fossabot/seot-agent/builder"
	"github.com/fossabot/seot-agent/coordinator"
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
)

func testRegistry() *registry.Registry {
	r := registry.New()
	r.Register("TestSource", func(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
		return dataflow.NewSource(name, "TestSource", bc.Identity, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}), nil
	}, nil)
	r.Register("TestSink", func(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
		return dataflow.NewSink(name, "TestSink", 0, func(ctx context.Context, env dataflow.Envelope) error {
			return nil
		}), nil
	}, nil)
	return r
}

// scriptedCoordinator serves one "run" heartbeat followed by one "kill"
// heartbeat for the same job, the minimal start-job/stop-job round trip of
// spec §8's end-to-end scenarios.
func scriptedCoordinator(t *testing.T) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var heartbeats int32
	var accepted int32

	mux := http.NewServeMux()
	mux.HandleFunc("/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&heartbeats, 1)
		w.Header().Set("Content-Type", "application/json")
		switch n {
		case 1:
			_ = json.NewEncoder(w).Encode(map[string]string{"run": "J1"})
		case 2:
			_ = json.NewEncoder(w).Encode(map[string]string{"kill": "J1"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}
	})
	mux.HandleFunc("/job/J1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"application_id": "app-1",
			"job_id":         "J1",
			"nodes": []map[string]interface{}{
				{"name": "s", "type": "TestSource", "to": []string{"d"}},
				{"name": "d", "type": "TestSink"},
			},
		})
	})
	mux.HandleFunc("/job/J1/accept", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&accepted, 1)
	})
	mux.HandleFunc("/job/J1/stop", func(w http.ResponseWriter, r *http.Request) {})

	return httptest.NewServer(mux), &heartbeats, &accepted
}

func TestSupervisorRunsStartsAndStopsJob(t *testing.T) {
	srv, heartbeats, accepted := scriptedCoordinator(t)
	defer srv.Close()

	reg := testRegistry()
	b := builder.New(reg, registry.BuildContext{Identity: dataflow.Identity{AgentID: "a1"}})
	client := coordinator.New(srv.URL, "test")

	sup := New(Config{
		Client:   client,
		Registry: reg,
		Builder:  b,
		Identity: dataflow.Identity{AgentID: "a1"},
		UserName: "u1",
		Interval: 20 * time.Millisecond,
		Version:  "test",
		Metrics:  prometheus.NewRegistry(),
	})

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()
	sup.Run(ctx)

	require.GreaterOrEqual(t, atomic.LoadInt32(heartbeats), int32(2))
	require.Equal(t, int32(1), atomic.LoadInt32(accepted))
	require.Empty(t, sup.jobs, "job should have been stopped and removed by the kill directive")
}

func TestStopJobIgnoresUntrackedJob(t *testing.T) {
	reg := testRegistry()
	b := builder.New(reg, registry.BuildContext{})
	client := coordinator.New("http://127.0.0.1:1", "test")

	sup := New(Config{
		Client:   client,
		Registry: reg,
		Builder:  b,
		Interval: time.Second,
		Version:  "test",
		Metrics:  prometheus.NewRegistry(),
	})
	sup.stopJob(t.Context(), "does-not-exist")
	require.Empty(t, sup.jobs)
}
