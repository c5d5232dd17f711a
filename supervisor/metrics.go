package supervisor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Supervisor's Prometheus instrumentation (SPEC_FULL.md
// §5): counters for heartbeats and job transitions, a gauge for the active
// job count. Grounded on graph/metrics.go's promauto.With(registry)
// factory pattern.
type metrics struct {
	heartbeats       prometheus.Counter
	heartbeatFailed  prometheus.Counter
	jobsStarted      prometheus.Counter
	jobsStartFailed  prometheus.Counter
	jobsStopped      prometheus.Counter
	jobsRejected     prometheus.Counter
	nodeRuntimeError prometheus.Counter
	activeJobs       prometheus.Gauge
}

// newMetrics registers Supervisor metrics with reg. A nil reg registers
// against prometheus.DefaultRegisterer.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &metrics{
		heartbeats: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "heartbeats_total",
			Help:      "Heartbeats successfully sent to the coordinator",
		}),
		heartbeatFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "heartbeat_failures_total",
			Help:      "Heartbeats that failed to reach the coordinator or were rejected",
		}),
		jobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "jobs_started_total",
			Help:      "Jobs whose graph startup succeeded and were recorded as running",
		}),
		jobsStartFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "jobs_start_failed_total",
			Help:      "Jobs whose graph failed to build or start up",
		}),
		jobsStopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "jobs_stopped_total",
			Help:      "Jobs stopped and cleaned up, by request or shutdown",
		}),
		jobsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "jobs_rejected_total",
			Help:      "run directives rejected because the job_id was already tracked",
		}),
		nodeRuntimeError: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seot_agent",
			Name:      "node_runtime_errors_total",
			Help:      "Graphs that terminated because a node's work task returned an error",
		}),
		activeJobs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "seot_agent",
			Name:      "active_jobs",
			Help:      "Number of jobs currently tracked by the supervisor",
		}),
	}
}
