// Command seot-debugtool loads a graph description standalone, with no
// coordinator involved, for local testing of node wiring (spec SPEC_FULL.md
// §CLI; mirrors original_source/seot/agent/debugtool.py). Verbose logging
// is forced on.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fossabot/seot-agent/builder"
	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/nodes"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/seotlog"
)

func main() {
	seotlog.Init(seotlog.Config{Level: seotlog.DebugLevel})
	log := seotlog.WithComponent("debugtool")

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <graph.yml>\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Error().Err(err).Msg("failed to read graph description")
		os.Exit(1)
	}

	reg := registry.Default
	nodes.RegisterAll(reg)

	b := builder.New(reg, registry.BuildContext{
		Identity: dataflow.Identity{AgentID: "debugtool"},
		Base:     context.Background(),
	})

	g, err := b.BuildYAML(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to build graph")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := g.Startup(ctx); err != nil {
		log.Error().Err(err).Msg("graph startup failed")
		os.Exit(1)
	}
	if err := g.Start(nil); err != nil {
		log.Error().Err(err).Msg("graph start failed")
		os.Exit(1)
	}

	log.Info().Msg("graph running, press ctrl-c to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	if g.Running() {
		_ = g.Stop(ctx)
		_ = g.Cleanup(ctx)
	}
}
