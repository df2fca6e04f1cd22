package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/songnet/errors"
	grapherror "github.com/teranos/songnet/graph/error"
)

func TestBuild_DataLoadScenario(t *testing.T) {
	raw := RawData{
		Nodes: []RawNode{{ID: "a", Playcount: 1}, {ID: "b", Playcount: 9}},
		Links: []RawLink{{Source: "a", Target: "b"}},
	}

	g, err := Build(raw, DefaultBuildOptions())
	require.NoError(t, err)

	a, b := g.Node("a"), g.Node("b")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Less(t, a.Radius, b.Radius)
	assert.Equal(t, 3.0, a.Radius)
	assert.Equal(t, 12.0, b.Radius)

	assert.True(t, g.Adjacency.Has("a", "b"))
	assert.True(t, g.Adjacency.Has("b", "a"))
	assert.Len(t, g.Adjacency, 2)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a_b", g.Edges[0].ID)
	assert.Same(t, a, g.Edges[0].Source, "edges reference graph nodes, not copies")
	assert.Same(t, b, g.Edges[0].Target)
}

func TestBuild_DanglingLink(t *testing.T) {
	raw := RawData{
		Nodes: []RawNode{{ID: "a"}},
		Links: []RawLink{{Source: "a", Target: "ghost"}},
	}

	g, err := Build(raw, DefaultBuildOptions())
	require.Error(t, err)
	assert.Nil(t, g)

	var dangling *grapherror.DanglingReferenceError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, 0, dangling.LinkIndex)
	assert.Equal(t, grapherror.EndpointTarget, dangling.Endpoint)
	assert.Equal(t, "ghost", dangling.ID)

	gerr, ok := grapherror.As(err)
	require.True(t, ok)
	assert.Equal(t, grapherror.SubcategoryGraphDanglingReference, gerr.Subcategory)
}

func TestBuild_DanglingSource(t *testing.T) {
	raw := RawData{
		Nodes: []RawNode{{ID: "a"}, {ID: "b"}},
		Links: []RawLink{{Source: "a", Target: "b"}, {Source: "x", Target: "a"}},
	}

	_, err := Build(raw, DefaultBuildOptions())
	var dangling *grapherror.DanglingReferenceError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, 1, dangling.LinkIndex)
	assert.Equal(t, grapherror.EndpointSource, dangling.Endpoint)
}

func TestBuild_DegenerateExtent(t *testing.T) {
	raw := RawData{Nodes: []RawNode{
		{ID: "a", Playcount: 5},
		{ID: "b", Playcount: 5},
		{ID: "c", Playcount: 5},
	}}

	g, err := Build(raw, BuildOptions{MinRadius: 4, MaxRadius: 10})
	require.NoError(t, err)
	for _, n := range g.Nodes {
		assert.Equal(t, 4.0, n.Radius, "node %s", n.ID)
	}
}

func TestBuild_RadiusWithinBounds(t *testing.T) {
	raw := RawData{Nodes: []RawNode{
		{ID: "a", Playcount: 0},
		{ID: "b", Playcount: 25},
		{ID: "c", Playcount: 100},
	}}

	g, err := Build(raw, DefaultBuildOptions())
	require.NoError(t, err)

	// sqrt scale: 25 is halfway between sqrt(0)=0 and sqrt(100)=10
	assert.InDelta(t, 7.5, g.Node("b").Radius, 1e-9)
	for _, n := range g.Nodes {
		assert.GreaterOrEqual(t, n.Radius, 3.0)
		assert.LessOrEqual(t, n.Radius, 12.0)
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name string
		raw  RawData
	}{
		{"duplicate id", RawData{Nodes: []RawNode{{ID: "a"}, {ID: "a"}}}},
		{"negative playcount", RawData{Nodes: []RawNode{{ID: "a", Playcount: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.raw, DefaultBuildOptions())
			require.Error(t, err)
			gerr, ok := grapherror.As(err)
			require.True(t, ok)
			assert.True(t, gerr.IsCategory(grapherror.CategoryGraph))
			assert.Equal(t, grapherror.SubcategoryGraphValidate, gerr.Subcategory)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(RawData{}, DefaultBuildOptions())
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Adjacency)
	assert.Equal(t, Stats{}, g.Stats())
}

func TestBuild_PreservesInputOrder(t *testing.T) {
	raw := RawData{Nodes: []RawNode{{ID: "z"}, {ID: "a"}, {ID: "m"}}}
	g, err := Build(raw, DefaultBuildOptions())
	require.NoError(t, err)

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestAdjacencySymmetry(t *testing.T) {
	raw := RawData{
		Nodes: []RawNode{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Links: []RawLink{{Source: "a", Target: "b"}, {Source: "c", Target: "b"}},
	}
	g, err := Build(raw, DefaultBuildOptions())
	require.NoError(t, err)

	linked := map[[2]string]bool{{"a", "b"}: true, {"c", "b"}: true}
	ids := []string{"a", "b", "c", "d"}
	for _, x := range ids {
		for _, y := range ids {
			if x == y {
				continue
			}
			want := linked[[2]string{x, y}] || linked[[2]string{y, x}]
			assert.Equal(t, want, g.Adjacency.IsAdjacent(x, y), "%s,%s", x, y)
			assert.Equal(t, g.Adjacency.IsAdjacent(x, y), g.Adjacency.IsAdjacent(y, x))
		}
	}
}

func TestGraphDegreeAndStats(t *testing.T) {
	raw := RawData{
		Nodes: []RawNode{
			{ID: "a", Artist: "X"},
			{ID: "b", Artist: "Y"},
			{ID: "c", Artist: "X"},
		},
		Links: []RawLink{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}},
	}
	g, err := Build(raw, DefaultBuildOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, g.Degree("a"))
	assert.Equal(t, 1, g.Degree("b"))
	assert.Equal(t, 0, g.Degree("missing"))
	assert.Equal(t, Stats{TotalNodes: 3, TotalEdges: 2, TotalArtists: 2, MaxDegree: 2}, g.Stats())
	assert.Nil(t, g.Node("missing"))

	var nilGraph *Graph
	assert.Nil(t, nilGraph.Node("a"))
	assert.Equal(t, 0, nilGraph.Degree("a"))
}

func TestPowScale_Clamps(t *testing.T) {
	s := NewRadiusScale(4, 16, BuildOptions{MinRadius: 1, MaxRadius: 3})
	assert.Equal(t, 1.0, s.Scale(0))
	assert.Equal(t, 3.0, s.Scale(100))
	assert.InDelta(t, 2.0, s.Scale(9), 1e-9)
}
