package render

import (
	"sync"

	"github.com/teranos/songnet/graph"
)

// NodeState is the recorded shape of one node
type NodeState struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Artist    string    `json:"artist"`
	Playcount float64   `json:"playcount"`
	Radius    float64   `json:"radius"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Style     NodeStyle `json:"style"`
}

// EdgeState is the recorded shape of one edge
type EdgeState struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	X1     float64   `json:"x1"`
	Y1     float64   `json:"y1"`
	X2     float64   `json:"x2"`
	Y2     float64   `json:"y2"`
	Style  EdgeStyle `json:"style"`
}

// Tooltip is the visible tooltip, if any
type Tooltip struct {
	Text   string `json:"text"`
	Anchor Anchor `json:"anchor"`
}

// Snapshot is a copy of everything drawn, in sync order
type Snapshot struct {
	Nodes   []NodeState `json:"nodes"`
	Edges   []EdgeState `json:"edges"`
	Tooltip *Tooltip    `json:"tooltip,omitempty"`
	Frames  int         `json:"frames"`
}

// Recorder is an in-memory Pipeline. It copies what it is given so it can
// be read from other goroutines while the layout keeps running.
type Recorder struct {
	mu sync.RWMutex

	nodes     []NodeState
	nodeIndex map[string]int
	edges     []EdgeState
	edgeIndex map[string]int
	tooltip   *Tooltip
	frames    int

	logCalls bool
	calls    []string
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithCallLog keeps the name of every pipeline call for Calls. The log is
// unbounded, so long-running recorders should not enable it.
func WithCallLog() RecorderOption {
	return func(r *Recorder) {
		r.logCalls = true
	}
}

// NewRecorder returns an empty recorder
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) record(call string) {
	if r.logCalls {
		r.calls = append(r.calls, call)
	}
}

// SyncNodes replaces the node shapes. Styles carry over for ids that stay.
func (r *Recorder) SyncNodes(nodes []*graph.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SyncNodes")

	prev := r.nodeIndex
	prevNodes := r.nodes
	r.nodes = make([]NodeState, len(nodes))
	r.nodeIndex = make(map[string]int, len(nodes))

	for i, n := range nodes {
		style := NodeNormal
		if j, ok := prev[n.ID]; ok {
			style = prevNodes[j].Style
		}
		r.nodes[i] = NodeState{
			ID:        n.ID,
			Name:      n.Name,
			Artist:    n.Artist,
			Playcount: n.Playcount,
			Radius:    n.Radius,
			X:         n.X,
			Y:         n.Y,
			Style:     style,
		}
		r.nodeIndex[n.ID] = i
	}
}

// SyncEdges replaces the edge shapes
func (r *Recorder) SyncEdges(edges []*graph.Edge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SyncEdges")

	prev := r.edgeIndex
	prevEdges := r.edges
	r.edges = make([]EdgeState, len(edges))
	r.edgeIndex = make(map[string]int, len(edges))

	for i, e := range edges {
		style := EdgeInactive
		if j, ok := prev[e.ID]; ok {
			style = prevEdges[j].Style
		}
		r.edges[i] = EdgeState{ID: e.ID, Source: e.SourceID, Target: e.TargetID, Style: style}
		r.edgeIndex[e.ID] = i
	}
}

func (r *Recorder) UpdateNodePositions(positions []NodePosition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UpdateNodePositions")
	r.frames++

	for _, p := range positions {
		if i, ok := r.nodeIndex[p.ID]; ok {
			r.nodes[i].X = p.X
			r.nodes[i].Y = p.Y
		}
	}
}

func (r *Recorder) SetEdgeEndpoints(endpoints []EdgeEndpoints) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetEdgeEndpoints")

	for _, ep := range endpoints {
		if i, ok := r.edgeIndex[ep.ID]; ok {
			e := &r.edges[i]
			e.X1, e.Y1, e.X2, e.Y2 = ep.X1, ep.Y1, ep.X2, ep.Y2
		}
	}
}

func (r *Recorder) SetNodeStyle(id string, style NodeStyle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetNodeStyle")

	if i, ok := r.nodeIndex[id]; ok {
		r.nodes[i].Style = style
	}
}

func (r *Recorder) SetEdgeStyle(id string, style EdgeStyle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetEdgeStyle")

	if i, ok := r.edgeIndex[id]; ok {
		r.edges[i].Style = style
	}
}

func (r *Recorder) ShowTooltip(text string, at Anchor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ShowTooltip")
	r.tooltip = &Tooltip{Text: text, Anchor: at}
}

func (r *Recorder) HideTooltip() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("HideTooltip")
	r.tooltip = nil
}

// Snapshot copies the recorded state
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Nodes:  make([]NodeState, len(r.nodes)),
		Edges:  make([]EdgeState, len(r.edges)),
		Frames: r.frames,
	}
	copy(snap.Nodes, r.nodes)
	copy(snap.Edges, r.edges)
	if r.tooltip != nil {
		t := *r.tooltip
		snap.Tooltip = &t
	}
	return snap
}

// Node returns the recorded state of one node
func (r *Recorder) Node(id string) (NodeState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.nodeIndex[id]
	if !ok {
		return NodeState{}, false
	}
	return r.nodes[i], true
}

// Edge returns the recorded state of one edge
func (r *Recorder) Edge(id string) (EdgeState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.edgeIndex[id]
	if !ok {
		return EdgeState{}, false
	}
	return r.edges[i], true
}

// Calls returns the method names received so far, in order. It is empty
// unless the recorder was created WithCallLog.
func (r *Recorder) Calls() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// ResetCalls clears the call log
func (r *Recorder) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
