package session

import (
	"time"

	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/layout"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/sim"
)

// Options configures a Session
type Options struct {
	Params       layout.Params
	Build        graph.BuildOptions
	Sim          sim.Config
	TickInterval time.Duration

	// Pipelines receive everything the session draws, after the internal recorder
	Pipelines []render.Pipeline
}

// DefaultOptions matches the default config with a 16ms tick
func DefaultOptions() Options {
	params := layout.DefaultParams()
	simCfg := sim.DefaultConfig()
	simCfg.Origin = [2]float64{params.Width / 2, params.Height / 2}

	return Options{
		Params:       params,
		Build:        graph.DefaultBuildOptions(),
		Sim:          simCfg,
		TickInterval: 16 * time.Millisecond,
	}
}

// OptionsFromConfig maps the am config onto session options
func OptionsFromConfig(cfg *am.Config) Options {
	params := layout.ParamsFromConfig(cfg)
	return Options{
		Params: params,
		Build: graph.BuildOptions{
			MinRadius: cfg.Nodes.MinRadius,
			MaxRadius: cfg.Nodes.MaxRadius,
		},
		Sim: sim.Config{
			VelocityDecay: cfg.Simulation.VelocityDecay,
			AlphaMin:      cfg.Simulation.AlphaMin,
			Origin:        [2]float64{params.Width / 2, params.Height / 2},
		},
		TickInterval: time.Duration(cfg.Simulation.TickIntervalMS) * time.Millisecond,
	}
}
