package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	grapherror "github.com/teranos/songnet/graph/error"
	songtest "github.com/teranos/songnet/internal/testing"
	"github.com/teranos/songnet/layout"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/view"
)

func startSession(t *testing.T, extra ...render.Pipeline) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.TickInterval = time.Millisecond
	opts.Pipelines = extra

	s, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s
}

func waitSettled(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.WaitSettled(ctx))
}

func TestSession_DataToSettleToSnapshot(t *testing.T) {
	extra := render.NewRecorder()
	s := startSession(t, extra)

	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	waitSettled(t, s)

	snap := s.Snapshot()
	assert.Len(t, snap.Nodes, 7)
	assert.Len(t, snap.Edges, 5)
	assert.Positive(t, snap.Frames)

	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, layout.ModeForce, st.Mode)
	assert.Equal(t, view.FilterAll, st.Filter)
	assert.True(t, st.Settled)
	assert.True(t, st.EdgesVisible)
	assert.Equal(t, graph.Stats{TotalNodes: 7, TotalEdges: 5, TotalArtists: 3, MaxDegree: 3}, st.Stats)
	assert.Equal(t, []string{"links", "center", "charge"}, st.Forces)

	// extra pipelines see the same frames as the internal recorder
	assert.Equal(t, len(snap.Nodes), len(extra.Snapshot().Nodes))
}

func TestSession_RadialSettleShowsEdges(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	require.NoError(t, s.UpdateLayout("radial"))
	waitSettled(t, s)

	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, layout.ModeRadial, st.Mode)
	assert.Equal(t, []string{"Cygnus", "Aurora", "Borealis"}, st.Groups)
	assert.True(t, st.EdgesVisible)

	for _, e := range s.Snapshot().Edges {
		assert.False(t, e.X1 == 0 && e.Y1 == 0 && e.X2 == 0 && e.Y2 == 0, "edge %s drawn after settle", e.ID)
	}
}

func TestSession_FilterAndSort(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	require.NoError(t, s.UpdateFilter("popular"))
	require.NoError(t, s.UpdateSort("links"))

	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Visible)
	assert.Equal(t, 2, st.VisibleEdges)
	assert.Equal(t, []string{"Borealis", "Aurora", "Cygnus"}, st.Groups)
	assert.Len(t, s.Snapshot().Nodes, 3)
}

func TestSession_InvalidModes(t *testing.T) {
	s := startSession(t)

	for _, fn := range []func() error{
		func() error { return s.UpdateLayout("spiral") },
		func() error { return s.UpdateFilter("loud") },
		func() error { return s.UpdateSort("color") },
	} {
		err := fn()
		require.Error(t, err)
		gerr, ok := grapherror.As(err)
		require.True(t, ok)
		assert.Equal(t, grapherror.CategoryParse, gerr.Category)
	}
}

func TestSession_FailedLoadKeepsPreviousGraph(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	before, err := s.Status()
	require.NoError(t, err)

	err = s.UpdateData(graph.RawData{
		Nodes: []graph.RawNode{{ID: "a"}},
		Links: []graph.RawLink{{Source: "a", Target: "ghost"}},
	})
	var dangling *grapherror.DanglingReferenceError
	require.True(t, errors.As(err, &dangling))

	after, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, before.Generation, after.Generation)
}

func TestSession_SearchAndHover(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))

	matches, err := s.UpdateSearch("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "6"}, matches)

	require.NoError(t, s.HoverEnter("3"))
	snap := s.Snapshot()
	require.NotNil(t, snap.Tooltip)
	assert.Equal(t, "Gamma Ray\nBorealis", snap.Tooltip.Text)

	require.NoError(t, s.HoverExit())
	assert.Nil(t, s.Snapshot().Tooltip)

	err = s.HoverEnter("missing")
	assert.True(t, errors.IsNotFoundError(err))

	// search survives a re-render
	require.NoError(t, s.UpdateFilter("obscure"))
	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, "alpha", st.Search)

	var searched []string
	for _, n := range s.Snapshot().Nodes {
		if n.Style == render.NodeSearched {
			searched = append(searched, n.ID)
		}
	}
	assert.Equal(t, []string{"1", "6"}, searched)
}

func TestSession_RerenderClearsHover(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	waitSettled(t, s)

	require.NoError(t, s.HoverEnter("2"))
	require.NoError(t, s.UpdateFilter("all"))

	st, err := s.Status()
	require.NoError(t, err)
	assert.Empty(t, st.Hovered)

	snap := s.Snapshot()
	for _, e := range snap.Edges {
		assert.Equal(t, render.EdgeInactive, e.Style, "edge %s", e.ID)
	}
	assert.Nil(t, snap.Tooltip)
}

func TestSession_ProductionRecorderKeepsNoCallLog(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(songtest.SampleRaw()))
	waitSettled(t, s)
	require.NoError(t, s.HoverEnter("2"))
	require.NoError(t, s.HoverExit())

	assert.Empty(t, s.recorder.Calls())
}

func TestSession_EmptyDataset(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.UpdateData(graph.RawData{}))
	waitSettled(t, s)

	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, 0, st.Visible)
	assert.Empty(t, st.Groups)
	assert.Empty(t, s.Snapshot().Nodes)
}

func TestSession_WaitSettledWithoutData(t *testing.T) {
	s := startSession(t)
	err := s.WaitSettled(context.Background())
	assert.True(t, errors.Is(err, errors.ErrNoData))
}

func TestSession_Closed(t *testing.T) {
	s, err := New(DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	cancel()
	<-s.Done()

	assert.True(t, errors.Is(s.UpdateLayout("radial"), errors.ErrSessionClosed))
	_, err = s.Status()
	assert.True(t, errors.Is(err, errors.ErrSessionClosed))
}

func TestOptionsFromDefaults(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 480.0, opts.Sim.Origin[0])
	assert.Equal(t, 400.0, opts.Sim.Origin[1])
	assert.Equal(t, 0.2, opts.Sim.VelocityDecay)
}
