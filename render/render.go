// Package render defines what the layout core needs from a drawing surface.
package render

import "github.com/teranos/songnet/graph"

// NodeStyle is the visual state of a node shape
type NodeStyle string

const (
	NodeNormal     NodeStyle = "normal"
	NodeEmphasized NodeStyle = "emphasized"
	NodeSearched   NodeStyle = "searched"
)

// EdgeStyle is the visual state of an edge shape
type EdgeStyle string

const (
	EdgeActive   EdgeStyle = "active"
	EdgeInactive EdgeStyle = "inactive"
)

// NodePosition is one node's coordinates for a frame
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EdgeEndpoints is one edge's line for a frame. Hidden edges are all zeros.
type EdgeEndpoints struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Anchor is where a tooltip attaches
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pipeline draws what the layout core decides. Sync calls replace the shape
// set keyed by id. Every other call addresses shapes by id.
type Pipeline interface {
	SyncNodes(nodes []*graph.Node)
	SyncEdges(edges []*graph.Edge)
	UpdateNodePositions(positions []NodePosition)
	SetEdgeEndpoints(endpoints []EdgeEndpoints)
	SetNodeStyle(id string, style NodeStyle)
	SetEdgeStyle(id string, style EdgeStyle)
	ShowTooltip(text string, at Anchor)
	HideTooltip()
}

// Fanout forwards every call to each pipeline in order
type Fanout []Pipeline

func (f Fanout) SyncNodes(nodes []*graph.Node) {
	for _, p := range f {
		p.SyncNodes(nodes)
	}
}

func (f Fanout) SyncEdges(edges []*graph.Edge) {
	for _, p := range f {
		p.SyncEdges(edges)
	}
}

func (f Fanout) UpdateNodePositions(positions []NodePosition) {
	for _, p := range f {
		p.UpdateNodePositions(positions)
	}
}

func (f Fanout) SetEdgeEndpoints(endpoints []EdgeEndpoints) {
	for _, p := range f {
		p.SetEdgeEndpoints(endpoints)
	}
}

func (f Fanout) SetNodeStyle(id string, style NodeStyle) {
	for _, p := range f {
		p.SetNodeStyle(id, style)
	}
}

func (f Fanout) SetEdgeStyle(id string, style EdgeStyle) {
	for _, p := range f {
		p.SetEdgeStyle(id, style)
	}
}

func (f Fanout) ShowTooltip(text string, at Anchor) {
	for _, p := range f {
		p.ShowTooltip(text, at)
	}
}

func (f Fanout) HideTooltip() {
	for _, p := range f {
		p.HideTooltip()
	}
}
