// Command seot-agent is the agent's main entry point (spec §6): loads
// configuration and state, discovers host facts, ensures the agent's TLS
// material exists, and runs the Supervisor's heartbeat loop until an
// interrupt signal requests graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fossabot/seot-agent/builder"
	"github.com/fossabot/seot-agent/config"
	"github.com/fossabot/seot-agent/coordinator"
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/nodes"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
	"github.com/fossabot/seot-agent/supervisor"
)

// version is the agent's own version string, embedded in the coordinator
// User-Agent header and the heartbeat facts payload (spec §6).
const version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	configPath string
	statePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "seot-agent",
	Short:   "Edge agent for the sensing/processing fabric",
	Version: version,
	RunE:    run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigPath(), "path to config.yml")
	rootCmd.PersistentFlags().StringVarP(&statePath, "state", "s", config.StatePath(), "path to state.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(initLogging)
}

func initLogging() {
	level := seotlog.InfoLevel
	if verbose {
		level = seotlog.DebugLevel
	}
	seotlog.Init(seotlog.Config{Level: level})
}

// run wires every collaborator together and blocks until shutdown,
// exiting 1 on any startup failure per spec §6.
func run(cmd *cobra.Command, args []string) error {
	log := seotlog.WithComponent("main")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := config.LoadOrCreateState(statePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	if _, err := config.EnsureCert(config.CertDir()); err != nil {
		return fmt.Errorf("ensuring certificate: %w", err)
	}

	identity := dataflow.Identity{
		AgentID:   st.AgentID,
		Longitude: cfg.Agent.Coordinate.Longitude,
		Latitude:  cfg.Agent.Coordinate.Latitude,
	}

	reg := registry.Default
	nodes.RegisterAll(reg)
	for _, extra := range cfg.Nodes {
		if reg.Has(extra.Class) {
			continue
		}
		log.Warn().Str("module", extra.Module).Str("class", extra.Class).
			Msg("configured plug-in node type has no compile-time registration; skipping")
	}

	buildCtx := registry.BuildContext{Identity: identity, Base: context.Background()}
	b := builder.New(reg, buildCtx)

	client := coordinator.New(cfg.CPP.BaseURL, version)

	sup := supervisor.New(supervisor.Config{
		Client:   client,
		Registry: reg,
		Builder:  b,
		Identity: identity,
		UserName: cfg.Agent.UserName,
		Interval: time.Duration(cfg.CPP.HeartbeatInterval) * time.Second,
		Version:  version,
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("received interrupt, shutting down")
		cancel()
	}()

	log.Info().Str("agent_id", identity.AgentID).Msg("agent starting")
	sup.Run(ctx)
	log.Info().Msg("agent stopped")
	return nil
}
