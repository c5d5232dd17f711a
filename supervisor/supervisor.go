// Package supervisor implements the periodic heartbeat loop that
// reconciles coordinator intent with local job state (spec §4.5). Per-job
// state is a plain map owned exclusively by the Supervisor's own goroutine
// (spec §5: "mutated only by the Supervisor task itself, therefore
// lock-free"), so every start-job/stop-job call here executes inline on
// the Run loop rather than being dispatched to other goroutines.
package supervisor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/fossabot/seot-agent/builder"
	"github.com/fossabot/seot-agent/coordinator"
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/facts"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
)

var tracer = otel.Tracer("github.com/fossabot/seot-agent/supervisor")

// Config wires a Supervisor to its collaborators.
type Config struct {
	Client   *coordinator.Client
	Registry *registry.Registry
	Builder  *builder.GraphBuilder
	Identity dataflow.Identity
	UserName string
	Interval time.Duration
	Version  string
	Metrics  prometheus.Registerer
}

// Supervisor runs the heartbeat loop described in spec §4.5.
type Supervisor struct {
	client   *coordinator.Client
	reg      *registry.Registry
	builder  *builder.GraphBuilder
	identity dataflow.Identity
	userName string
	interval time.Duration
	version  string
	m        *metrics

	jobs map[string]*dataflow.Graph
}

const defaultInterval = 60 * time.Second

// New constructs a Supervisor from cfg.
func New(cfg Config) *Supervisor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Supervisor{
		client:   cfg.Client,
		reg:      cfg.Registry,
		builder:  cfg.Builder,
		identity: cfg.Identity,
		userName: cfg.UserName,
		interval: interval,
		version:  cfg.Version,
		m:        newMetrics(cfg.Metrics),
		jobs:     make(map[string]*dataflow.Graph),
	}
}

// Run drives the heartbeat loop until ctx is cancelled, then performs the
// shutdown sequence of spec §4.5: stop every tracked job, in job-map
// iteration order, before returning.
func (s *Supervisor) Run(ctx context.Context) {
	log := seotlog.WithComponent("supervisor")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.heartbeat(ctx)
	for {
		select {
		case <-ctx.Done():
			s.shutdown(log)
			return
		case <-ticker.C:
			s.heartbeat(ctx)
		}
	}
}

// heartbeat performs one heartbeat/dispatch cycle.
func (s *Supervisor) heartbeat(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "supervisor.heartbeat")
	defer span.End()

	log := seotlog.WithComponent("supervisor")

	req := coordinator.HeartbeatRequest{
		UserName:  s.userName,
		AgentID:   s.identity.AgentID,
		Longitude: s.identity.Longitude,
		Latitude:  s.identity.Latitude,
		Nodes:     s.reg.TypeNames(),
		Facts:     facts.Discover(s.version),
	}

	resp, ok := s.client.Heartbeat(ctx, req)
	if !ok {
		s.m.heartbeatFailed.Inc()
		log.Error().Msg("heartbeat failed")
		return
	}
	s.m.heartbeats.Inc()

	switch {
	case resp.Run != "":
		s.startJob(ctx, resp.Run)
	case resp.Kill != "":
		s.stopJob(ctx, resp.Kill)
	}
}

// startJob implements spec §4.5's start-job(job_id).
func (s *Supervisor) startJob(ctx context.Context, jobID string) {
	log := seotlog.WithJob(jobID)

	if _, tracked := s.jobs[jobID]; tracked {
		s.client.RejectJob(ctx, jobID)
		s.m.jobsRejected.Inc()
		log.Warn().Msg("rejected run directive for already-tracked job")
		return
	}

	desc, ok := s.client.GetJob(ctx, jobID)
	if !ok {
		log.Error().Msg("failed to fetch job description")
		return
	}
	delete(desc, "application_id")
	delete(desc, "job_id")

	s.client.AcceptJob(ctx, jobID)

	data, err := json.Marshal(desc)
	if err != nil {
		log.Error().Err(err).Msg("failed to re-encode job description")
		s.client.StopJob(ctx, jobID)
		s.m.jobsStartFailed.Inc()
		return
	}

	g, err := s.builder.BuildJSON(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to build job graph")
		s.client.StopJob(ctx, jobID)
		s.m.jobsStartFailed.Inc()
		return
	}

	if err := g.Startup(ctx); err != nil {
		log.Error().Err(err).Msg("job graph startup failed")
		s.client.StopJob(ctx, jobID)
		if cleanupErr := g.Cleanup(context.Background()); cleanupErr != nil {
			log.Warn().Err(cleanupErr).Msg("compensating cleanup after failed startup also failed")
		}
		s.m.jobsStartFailed.Inc()
		return
	}

	s.jobs[jobID] = g
	s.m.jobsStarted.Inc()
	s.m.activeJobs.Set(float64(len(s.jobs)))

	if err := g.Start(func(done *dataflow.Graph) {
		if err := done.Err(); err != nil {
			s.m.nodeRuntimeError.Inc()
			log.Error().Err(err).Msg("job graph terminated with a node runtime error")
		}
	}); err != nil {
		log.Error().Err(err).Msg("failed to start job graph")
	}
}

// stopJob implements spec §4.5's stop-job(job_id).
func (s *Supervisor) stopJob(ctx context.Context, jobID string) {
	log := seotlog.WithJob(jobID)

	g, tracked := s.jobs[jobID]
	if !tracked {
		log.Warn().Msg("kill directive for untracked job")
		return
	}

	if g.Running() {
		if err := g.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("graph stop returned an error")
		}
		if err := g.Cleanup(ctx); err != nil {
			log.Warn().Err(err).Msg("graph cleanup returned an error")
		}
	}

	s.client.StopJob(ctx, jobID)
	delete(s.jobs, jobID)
	s.m.jobsStopped.Inc()
	s.m.activeJobs.Set(float64(len(s.jobs)))
}

// shutdown tears down every tracked job sequentially (spec §4.5:
// "Shutdown: ... for every tracked job sequentially stop() + cleanup() +
// POST /job/{id}/stop").
func (s *Supervisor) shutdown(log zerolog.Logger) {
	log.Info().Int("jobs", len(s.jobs)).Msg("shutting down, tearing down tracked jobs")
	ctx := context.Background()
	for jobID := range s.jobs {
		s.stopJob(ctx, jobID)
	}
}
