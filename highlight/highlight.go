// Package highlight drives hover emphasis, tooltips and search marking.
package highlight

import (
	"strings"

	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/view"
	"go.uber.org/zap"
)

// Source exposes the graph and what is currently drawn
type Source interface {
	Graph() *graph.Graph
	Visible() view.VisibleSet
}

// Controller styles shapes through the pipeline. Not safe for concurrent use.
type Controller struct {
	pipeline render.Pipeline
	source   Source
	logger   *zap.SugaredLogger

	term    string
	hovered string
}

// New returns a controller with no search term and nothing hovered
func New(pipeline render.Pipeline, source Source) *Controller {
	return &Controller{
		pipeline: pipeline,
		source:   source,
		logger:   logger.ComponentLogger("highlight"),
	}
}

// Term is the active search term
func (c *Controller) Term() string { return c.term }

// Hovered is the id of the hovered node, or empty
func (c *Controller) Hovered() string { return c.hovered }

// HoverEnter emphasizes n and its neighbours, activates its edges and shows
// a tooltip at its position. Searched nodes stay emphasized.
func (c *Controller) HoverEnter(n *graph.Node) {
	if n == nil {
		return
	}
	c.hovered = n.ID

	vs := c.source.Visible()
	var adjacency graph.AdjacencyIndex
	if g := c.source.Graph(); g != nil {
		adjacency = g.Adjacency
	}

	for _, e := range vs.Edges {
		style := render.EdgeInactive
		if e.SourceID == n.ID || e.TargetID == n.ID {
			style = render.EdgeActive
		}
		c.pipeline.SetEdgeStyle(e.ID, style)
	}

	for _, other := range vs.Nodes {
		style := render.NodeNormal
		if other.ID == n.ID || other.Searched || adjacency.IsAdjacent(n.ID, other.ID) {
			style = render.NodeEmphasized
		}
		c.pipeline.SetNodeStyle(other.ID, style)
	}

	c.pipeline.ShowTooltip(n.Name+"\n"+n.Artist, render.Anchor{X: n.X, Y: n.Y})
}

// HoverExit returns every shape to its resting style and hides the tooltip
func (c *Controller) HoverExit() {
	c.hovered = ""
	vs := c.source.Visible()

	for _, e := range vs.Edges {
		c.pipeline.SetEdgeStyle(e.ID, render.EdgeInactive)
	}
	for _, n := range vs.Nodes {
		c.pipeline.SetNodeStyle(n.ID, resting(n))
	}
	c.pipeline.HideTooltip()
}

func resting(n *graph.Node) render.NodeStyle {
	if n.Searched {
		return render.NodeSearched
	}
	return render.NodeNormal
}

// Search marks visible nodes whose name contains term, ignoring case. The
// term is matched literally. An empty term clears every mark. Edges are
// never touched. Returns the ids of matching nodes.
func (c *Controller) Search(term string) []string {
	c.term = term

	g := c.source.Graph()
	if g == nil {
		return nil
	}

	// Hidden nodes never stay marked
	for _, n := range g.Nodes {
		n.Searched = false
	}

	vs := c.source.Visible()
	needle := strings.ToLower(term)
	var matches []string

	for _, n := range vs.Nodes {
		if term != "" && strings.Contains(strings.ToLower(n.Name), needle) {
			n.Searched = true
			matches = append(matches, n.ID)
		}
		c.pipeline.SetNodeStyle(n.ID, resting(n))
	}

	c.logger.Debugw("Search applied",
		logger.FieldSearch, term,
		logger.FieldMatches, len(matches))
	return matches
}

// Reapply restores search marks after shapes were resynced. Hover state
// does not survive a resync: edges return to inactive and a hover tooltip
// is hidden.
func (c *Controller) Reapply() {
	wasHovered := c.hovered != ""
	c.hovered = ""

	for _, e := range c.source.Visible().Edges {
		c.pipeline.SetEdgeStyle(e.ID, render.EdgeInactive)
	}
	if wasHovered {
		c.pipeline.HideTooltip()
	}
	c.Search(c.term)
}
