// Package view decides which nodes and edges are visible and in what order
// artist groups are laid out.
package view

import (
	"math"
	"sort"
	"strings"

	"github.com/teranos/songnet/graph"
	grapherror "github.com/teranos/songnet/graph/error"
)

// FilterMode selects nodes by playcount relative to the median
type FilterMode string

const (
	FilterAll     FilterMode = "all"
	FilterPopular FilterMode = "popular"
	FilterObscure FilterMode = "obscure"
)

// SortMode orders artist groups
type SortMode string

const (
	SortSongs SortMode = "songs"
	SortLinks SortMode = "links"
)

// ParseFilterMode accepts all, popular or obscure (case-insensitive)
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case FilterAll, FilterPopular, FilterObscure:
		return m, nil
	}
	return "", grapherror.NewInvalidMode("filter", s, string(FilterAll), string(FilterPopular), string(FilterObscure))
}

// ParseSortMode accepts songs or links (case-insensitive)
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortSongs, SortLinks:
		return m, nil
	}
	return "", grapherror.NewInvalidMode("sort", s, string(SortSongs), string(SortLinks))
}

// VisibleSet is what the current configuration shows. Every edge has both
// endpoints in Nodes.
type VisibleSet struct {
	Nodes []*graph.Node
	Edges []*graph.Edge
}

// Quantile interpolates linearly between closest ranks (R-7) over an
// ascending slice. Returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	i := float64(n-1) * p
	i0 := int(math.Floor(i))
	v0 := sorted[i0]
	v1 := sorted[i0+1]
	return v0 + (v1-v0)*(i-float64(i0))
}

// Median returns the 0.5 quantile of the nodes' playcounts
func Median(nodes []*graph.Node) float64 {
	counts := make([]float64, len(nodes))
	for i, n := range nodes {
		counts[i] = n.Playcount
	}
	sort.Float64s(counts)
	return Quantile(counts, 0.5)
}

// FilterNodes keeps input order. popular is playcount > median, obscure is
// playcount <= median, so the two partition the input.
func FilterNodes(nodes []*graph.Node, mode FilterMode) []*graph.Node {
	if mode == FilterAll || mode == "" {
		return nodes
	}
	if len(nodes) == 0 {
		return []*graph.Node{}
	}

	median := Median(nodes)
	out := make([]*graph.Node, 0, len(nodes))
	for _, n := range nodes {
		popular := n.Playcount > median
		if popular == (mode == FilterPopular) {
			out = append(out, n)
		}
	}
	return out
}

// FilterEdges keeps edges whose endpoints are both visible
func FilterEdges(edges []*graph.Edge, visible []*graph.Node) []*graph.Edge {
	ids := make(map[string]struct{}, len(visible))
	for _, n := range visible {
		ids[n.ID] = struct{}{}
	}

	out := make([]*graph.Edge, 0, len(edges))
	for _, e := range edges {
		_, okSource := ids[e.SourceID]
		_, okTarget := ids[e.TargetID]
		if okSource && okTarget {
			out = append(out, e)
		}
	}
	return out
}

// groupCounter counts per artist and remembers first-encounter order
type groupCounter struct {
	counts map[string]int
	order  []string
}

func newGroupCounter() *groupCounter {
	return &groupCounter{counts: make(map[string]int)}
}

func (c *groupCounter) add(artist string, delta int) {
	if _, seen := c.counts[artist]; !seen {
		c.order = append(c.order, artist)
	}
	c.counts[artist] += delta
}

// sorted returns keys by count descending, ties in first-encountered order
func (c *groupCounter) sorted() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}

// GroupOrder orders the distinct artists of the visible set.
//
// songs counts visible nodes per artist. links counts one for the source
// artist and one for the target artist of each visible edge; artists with
// visible nodes but no edges follow with count zero.
func GroupOrder(nodes []*graph.Node, edges []*graph.Edge, mode SortMode) []string {
	c := newGroupCounter()

	switch mode {
	case SortLinks:
		for _, e := range edges {
			c.add(e.Source.Artist, 1)
			c.add(e.Target.Artist, 1)
		}
		for _, n := range nodes {
			c.add(n.Artist, 0)
		}
	default:
		for _, n := range nodes {
			c.add(n.Artist, 1)
		}
	}

	return c.sorted()
}

// Compute applies the node filter and then the edge filter to g
func Compute(g *graph.Graph, filter FilterMode) VisibleSet {
	if g == nil {
		return VisibleSet{Nodes: []*graph.Node{}, Edges: []*graph.Edge{}}
	}
	nodes := FilterNodes(g.Nodes, filter)
	return VisibleSet{
		Nodes: nodes,
		Edges: FilterEdges(g.Edges, nodes),
	}
}
