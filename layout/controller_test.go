package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	songtest "github.com/teranos/songnet/internal/testing"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/sim"
	"github.com/teranos/songnet/view"
)

func newController(t *testing.T) (*Controller, *songtest.FakeEngine, *render.Recorder) {
	t.Helper()
	eng := songtest.NewFakeEngine()
	rec := render.NewRecorder(render.WithCallLog())
	c, err := NewController(eng, rec, DefaultParams())
	require.NoError(t, err)
	return c, eng, rec
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Radial")
	require.NoError(t, err)
	assert.Equal(t, ModeRadial, m)

	_, err = ParseMode("spiral")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidModeError(err))
}

func TestRender_NilGraphIsNoop(t *testing.T) {
	c, eng, rec := newController(t)
	c.Render()

	assert.Empty(t, eng.Calls)
	assert.Empty(t, rec.Calls())
	assert.Equal(t, uint64(0), c.Generation())
}

func TestRender_Order(t *testing.T) {
	c, eng, rec := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.Render()

	assert.Equal(t, []string{
		"Pause",
		"SetActiveNodes",
		"SetForce:links",
		"SetForce:center",
		"SetForce:charge",
		"SetForce:x",
		"SetForce:y",
		"OnStep",
		"OnSettle",
		"Restart",
	}, eng.Calls)
	assert.Equal(t, []string{"SyncNodes", "SyncEdges"}, rec.Calls())
	assert.True(t, eng.Running)
}

func TestRender_ForceMode(t *testing.T) {
	c, eng, _ := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.Render()

	assert.Equal(t, []string{ForceLinks, ForceCenter, ForceCharge}, c.ActiveForces())
	assert.True(t, c.EdgesVisible())

	link, ok := eng.Forces[ForceLinks].(*sim.Link)
	require.True(t, ok)
	assert.Equal(t, 50.0, link.Distance)
	assert.Equal(t, 1.0, link.Strength)
	assert.Len(t, link.Links, 5)

	center, ok := eng.Forces[ForceCenter].(*sim.Center)
	require.True(t, ok)
	assert.Equal(t, 480.0, center.X)
	assert.Equal(t, 240.0, center.Y)

	charge, ok := eng.Forces[ForceCharge].(*sim.ManyBody)
	require.True(t, ok)
	assert.InDelta(t, -(3.0*3.0)*0.25, charge.Strength(&graph.Node{Radius: 3}), 1e-9)

	assert.NotContains(t, eng.Forces, ForceX)
	assert.NotContains(t, eng.Forces, ForceY)
}

func TestRender_RadialMode(t *testing.T) {
	c, eng, _ := newController(t)
	g := songtest.SampleGraph(t)
	c.SetGraph(g)
	c.SetMode(ModeRadial)
	c.Render()

	assert.Equal(t, []string{ForceCharge, ForceX, ForceY}, c.ActiveForces())
	assert.False(t, c.EdgesVisible())
	assert.NotContains(t, eng.Forces, ForceLinks)
	assert.NotContains(t, eng.Forces, ForceCenter)

	assert.Equal(t, []string{"Cygnus", "Aurora", "Borealis"}, c.Groups())
	assert.Equal(t, c.Groups(), c.Allocator().Keys())

	px, ok := eng.Forces[ForceX].(*sim.Position)
	require.True(t, ok)
	assert.Equal(t, 0.02, px.Strength)
	node := g.Node("5") // Cygnus, first group
	assert.InDelta(t, c.Allocator().Place("Cygnus").X, px.Target(node), 1e-9)

	charge := eng.Forces[ForceCharge].(*sim.ManyBody)
	assert.InDelta(t, -(10.0*10.0)*0.04, charge.Strength(&graph.Node{Radius: 10}), 1e-9)
}

func TestRender_RadialEdgesHiddenUntilSettle(t *testing.T) {
	c, eng, rec := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.SetMode(ModeRadial)

	var settled []uint64
	c.OnSettle(func(gen uint64) { settled = append(settled, gen) })
	c.Render()

	eng.FireStep()
	e, ok := rec.Edge("1_2")
	require.True(t, ok)
	assert.Equal(t, render.EdgeState{ID: "1_2", Source: "1", Target: "2", Style: render.EdgeInactive}, e)

	eng.FireSettle()
	assert.True(t, c.EdgesVisible())
	assert.True(t, c.Settled())
	assert.Equal(t, []uint64{1}, settled)

	g := c.Graph()
	e, _ = rec.Edge("1_2")
	assert.Equal(t, g.Node("1").X, e.X1)
	assert.Equal(t, g.Node("2").Y, e.Y2)
}

func TestRender_StepPushesPositions(t *testing.T) {
	c, eng, rec := newController(t)
	g := songtest.SampleGraph(t)
	c.SetGraph(g)
	c.Render()

	g.Node("3").X, g.Node("3").Y = 12, 34
	eng.FireStep()

	n, ok := rec.Node("3")
	require.True(t, ok)
	assert.Equal(t, 12.0, n.X)
	assert.Equal(t, 34.0, n.Y)

	e, _ := rec.Edge("2_3")
	assert.Equal(t, 12.0, e.X2, "force mode draws edges live")
}

func TestRender_StaleSettleIgnored(t *testing.T) {
	c, eng, rec := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.SetMode(ModeRadial)

	var settled []uint64
	c.OnSettle(func(gen uint64) { settled = append(settled, gen) })

	c.Render()
	staleSettle := eng.SettleCallback()
	staleStep := eng.StepCallback()

	c.Render()
	rec.ResetCalls()

	staleStep()
	staleSettle()

	assert.Equal(t, uint64(2), c.Generation())
	assert.False(t, c.EdgesVisible())
	assert.False(t, c.Settled())
	assert.Empty(t, settled)
	assert.Empty(t, rec.Calls(), "stale callbacks push nothing")

	eng.FireSettle()
	assert.Equal(t, []uint64{2}, settled)
}

func TestRender_Idempotent(t *testing.T) {
	c, eng, _ := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.SetMode(ModeRadial)
	c.SetFilter(view.FilterPopular)
	c.SetSort(view.SortLinks)

	c.Render()
	nodes := songtest.IDs(c.Visible().Nodes)
	edges := songtest.EdgeIDs(c.Visible().Edges)
	groups := c.Groups()
	forces := c.ActiveForces()
	centers := map[string]interface{}{}
	for _, k := range groups {
		centers[k] = c.Allocator().Place(k)
	}

	c.Render()
	assert.Equal(t, nodes, songtest.IDs(c.Visible().Nodes))
	assert.Equal(t, edges, songtest.EdgeIDs(c.Visible().Edges))
	assert.Equal(t, groups, c.Groups())
	assert.Equal(t, forces, c.ActiveForces())
	for _, k := range groups {
		assert.Equal(t, centers[k], c.Allocator().Place(k))
	}
	assert.Equal(t, songtest.IDs(c.Visible().Nodes), songtest.IDs(eng.Active))
}

func TestRender_ModeSwitchReplacesForces(t *testing.T) {
	c, eng, _ := newController(t)
	c.SetGraph(songtest.SampleGraph(t))
	c.SetMode(ModeRadial)
	c.Render()

	c.SetMode(ModeForce)
	c.Render()

	assert.Equal(t, []string{ForceLinks, ForceCenter, ForceCharge}, c.ActiveForces())
	assert.NotContains(t, eng.Forces, ForceX)
	assert.NotContains(t, eng.Forces, ForceY)
	assert.True(t, c.EdgesVisible())
}

func TestRender_FilterKeepsEdgesConsistent(t *testing.T) {
	c, _, rec := newController(t)
	c.SetGraph(songtest.SampleGraph(t))

	for _, f := range []view.FilterMode{view.FilterAll, view.FilterPopular, view.FilterObscure} {
		c.SetFilter(f)
		c.Render()

		ids := map[string]bool{}
		for _, n := range c.Visible().Nodes {
			ids[n.ID] = true
		}
		for _, e := range c.Visible().Edges {
			assert.True(t, ids[e.SourceID] && ids[e.TargetID], "%s: edge %s", f, e.ID)
		}
		assert.Len(t, rec.Snapshot().Nodes, len(c.Visible().Nodes))
	}
}

func TestRender_EmptyVisibleSet(t *testing.T) {
	c, eng, rec := newController(t)
	c.SetGraph(songtest.MustBuild(t, graph.RawData{}))

	var settled []uint64
	c.OnSettle(func(gen uint64) { settled = append(settled, gen) })
	c.SetMode(ModeRadial)
	c.Render()

	assert.NotContains(t, eng.Calls, "Restart")
	assert.Equal(t, []string{"SyncNodes", "SyncEdges"}, rec.Calls())
	assert.Empty(t, c.Groups())
	assert.Equal(t, 0, c.Allocator().Len())
	assert.True(t, c.Settled())
	assert.Equal(t, []uint64{1}, settled)
}

func TestRender_SyncHooksRunAfterSync(t *testing.T) {
	c, _, rec := newController(t)
	c.SetGraph(songtest.SampleGraph(t))

	var seen []string
	c.OnSync(func() { seen = rec.Calls() })
	c.Render()

	assert.Equal(t, []string{"SyncNodes", "SyncEdges"}, seen)
}

func TestNewController_Validation(t *testing.T) {
	_, err := NewController(nil, render.NewRecorder(), DefaultParams())
	assert.Error(t, err)

	p := DefaultParams()
	p.RadialIncrement = 0
	_, err = NewController(songtest.NewFakeEngine(), render.NewRecorder(), p)
	assert.Error(t, err)
}

func TestRender_WithSimulationEngine(t *testing.T) {
	s := sim.New(sim.Config{VelocityDecay: 0.2, AlphaMin: 0.1, Origin: [2]float64{480, 400}})
	rec := render.NewRecorder()
	c, err := NewController(s, rec, DefaultParams())
	require.NoError(t, err)

	c.SetGraph(songtest.SampleGraph(t))
	c.SetMode(ModeRadial)
	c.Render()
	require.True(t, s.Running())

	s.Run(1000)
	assert.True(t, c.Settled())
	assert.True(t, c.EdgesVisible())
	assert.Positive(t, rec.Snapshot().Frames)
}
