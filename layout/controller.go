// Package layout owns the render transition: it decides what is visible,
// configures the shared engine for the active layout and forwards engine
// steps to the render pipeline.
package layout

import (
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/radial"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/sim"
	"github.com/teranos/songnet/view"
	"go.uber.org/zap"
)

// SettleListener is told which render generation settled
type SettleListener func(generation uint64)

// Controller is the layout state machine. Not safe for concurrent use.
type Controller struct {
	engine    Engine
	pipeline  render.Pipeline
	params    Params
	allocator *radial.Allocator
	logger    *zap.SugaredLogger

	mode   Mode
	filter view.FilterMode
	sort   view.SortMode
	graph  *graph.Graph

	visible      view.VisibleSet
	groups       []string
	edgesVisible bool
	generation   uint64
	active       []string
	settled      bool

	listeners []SettleListener
	syncHooks []func()
}

// NewController starts in force mode, filter all, sort songs, with no graph
func NewController(engine Engine, pipeline render.Pipeline, params Params) (*Controller, error) {
	if engine == nil || pipeline == nil {
		return nil, errors.New("layout controller needs an engine and a pipeline")
	}

	allocator, err := radial.New(radial.Config{
		Center:    radial.Point{X: params.Width / 2, Y: params.Height / 2},
		Radius:    params.RadialRadius,
		Increment: params.RadialIncrement,
		Start:     params.RadialStart,
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid radial parameters")
	}

	return &Controller{
		engine:    engine,
		pipeline:  pipeline,
		params:    params,
		allocator: allocator,
		logger:    logger.ComponentLogger("layout"),
		mode:      ModeForce,
		filter:    view.FilterAll,
		sort:      view.SortSongs,
		visible:   view.VisibleSet{Nodes: []*graph.Node{}, Edges: []*graph.Edge{}},
	}, nil
}

// SetMode, SetFilter, SetSort and SetGraph change configuration only.
// Call Render to apply.

func (c *Controller) SetMode(m Mode)               { c.mode = m }
func (c *Controller) SetFilter(f view.FilterMode)  { c.filter = f }
func (c *Controller) SetSort(s view.SortMode)      { c.sort = s }
func (c *Controller) SetGraph(g *graph.Graph)      { c.graph = g }
func (c *Controller) Mode() Mode                   { return c.mode }
func (c *Controller) Filter() view.FilterMode      { return c.filter }
func (c *Controller) Sort() view.SortMode          { return c.sort }
func (c *Controller) Graph() *graph.Graph          { return c.graph }
func (c *Controller) Visible() view.VisibleSet     { return c.visible }
func (c *Controller) EdgesVisible() bool           { return c.edgesVisible }
func (c *Controller) Generation() uint64           { return c.generation }
func (c *Controller) Settled() bool                { return c.settled }
func (c *Controller) Allocator() *radial.Allocator { return c.allocator }

// Groups returns the current artist order
func (c *Controller) Groups() []string {
	out := make([]string, len(c.groups))
	copy(out, c.groups)
	return out
}

// ActiveForces lists the forces currently registered on the engine
func (c *Controller) ActiveForces() []string {
	out := make([]string, len(c.active))
	copy(out, c.active)
	return out
}

// OnSettle registers a listener called after each current-generation settle
func (c *Controller) OnSettle(fn SettleListener) {
	c.listeners = append(c.listeners, fn)
}

// OnSync registers a hook run right after shapes are resynced
func (c *Controller) OnSync(fn func()) {
	c.syncHooks = append(c.syncHooks, fn)
}

// Render is the single transition function. It pauses the engine,
// recomputes the visible set and groups, swaps the whole force set,
// resyncs shapes, binds callbacks to a new generation and restarts.
// Without a graph it does nothing.
func (c *Controller) Render() {
	if c.graph == nil {
		c.logger.Debugw("Render skipped, no graph")
		return
	}

	c.generation++
	gen := c.generation
	c.settled = false

	c.engine.Pause()

	c.visible = view.Compute(c.graph, c.filter)
	c.groups = view.GroupOrder(c.visible.Nodes, c.visible.Edges, c.sort)

	c.engine.SetActiveNodes(c.visible.Nodes)
	c.apply(c.forceSet())

	c.pipeline.SyncNodes(c.visible.Nodes)
	c.pipeline.SyncEdges(c.visible.Edges)
	for _, hook := range c.syncHooks {
		hook()
	}

	c.engine.OnStep(func() { c.step(gen) })
	c.engine.OnSettle(func() { c.settle(gen) })

	c.logger.Infow("Render",
		logger.FieldMode, string(c.mode),
		logger.FieldFilter, string(c.filter),
		logger.FieldSort, string(c.sort),
		logger.FieldGeneration, gen,
		logger.FieldNodes, len(c.visible.Nodes),
		logger.FieldLinks, len(c.visible.Edges),
		logger.FieldGroups, len(c.groups))

	if len(c.visible.Nodes) == 0 {
		// Nothing to simulate; treat the empty layout as settled
		c.edgesVisible = true
		c.settled = true
		c.notify(gen)
		return
	}

	c.engine.Restart()
}

// forceSet builds the complete force configuration for the current mode.
// Every name in ForceNames is present; nil means removed.
func (c *Controller) forceSet() ForceSet {
	p := c.params

	switch c.mode {
	case ModeRadial:
		c.allocator.SetKeys(c.groups)
		c.edgesVisible = false
		return ForceSet{
			ForceLinks:  nil,
			ForceCenter: nil,
			ForceCharge: sim.NewManyBody(sim.ChargeByRadius(p.RadialCharge)),
			ForceX: sim.NewPositionX(func(n *graph.Node) float64 {
				return c.allocator.Place(n.Artist).X
			}, p.PositionStrength),
			ForceY: sim.NewPositionY(func(n *graph.Node) float64 {
				return c.allocator.Place(n.Artist).Y
			}, p.PositionStrength),
		}

	default:
		c.edgesVisible = true
		return ForceSet{
			ForceLinks:  sim.NewLink(c.visible.Edges, p.LinkDistance, p.LinkStrength),
			ForceCenter: sim.NewCenter(p.Width/2, p.Height/2-p.CenterOffsetY),
			ForceCharge: sim.NewManyBody(sim.ChargeByRadius(p.ForceCharge)),
			ForceX:      nil,
			ForceY:      nil,
		}
	}
}

// apply registers every name of fs on the engine, removing nil entries
func (c *Controller) apply(fs ForceSet) {
	c.active = c.active[:0]
	for _, name := range ForceNames {
		f := fs[name]
		c.engine.SetForce(name, f)
		if f != nil {
			c.active = append(c.active, name)
		}
	}
	c.logger.Debugw("Forces applied", logger.FieldForces, c.active)
}

func (c *Controller) step(gen uint64) {
	if gen != c.generation {
		c.logger.Debugw("Stale step ignored", logger.FieldGeneration, gen, "current", c.generation)
		return
	}
	c.push()
}

func (c *Controller) settle(gen uint64) {
	if gen != c.generation {
		c.logger.Debugw("Stale settle ignored", logger.FieldGeneration, gen, "current", c.generation)
		return
	}

	c.edgesVisible = true
	c.settled = true
	c.push()

	c.logger.Infow("Layout settled",
		logger.FieldMode, string(c.mode),
		logger.FieldGeneration, gen)
	c.notify(gen)
}

func (c *Controller) notify(gen uint64) {
	for _, fn := range c.listeners {
		fn(gen)
	}
}

// push sends node positions and edge endpoints for the current visible set.
// Hidden edges collapse to zeros.
func (c *Controller) push() {
	positions := make([]render.NodePosition, len(c.visible.Nodes))
	for i, n := range c.visible.Nodes {
		positions[i] = render.NodePosition{ID: n.ID, X: n.X, Y: n.Y}
	}
	c.pipeline.UpdateNodePositions(positions)

	endpoints := make([]render.EdgeEndpoints, len(c.visible.Edges))
	for i, e := range c.visible.Edges {
		endpoints[i] = render.EdgeEndpoints{ID: e.ID}
		if c.edgesVisible {
			endpoints[i].X1 = e.Source.X
			endpoints[i].Y1 = e.Source.Y
			endpoints[i].X2 = e.Target.X
			endpoints[i].Y2 = e.Target.Y
		}
	}
	c.pipeline.SetEdgeEndpoints(endpoints)
}
