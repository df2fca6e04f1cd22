package server

import (
	"context"
	"time"

	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/session"
)

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second
)

// Inbound message types
const (
	MsgLayout  = "layout"
	MsgFilter  = "filter"
	MsgSort    = "sort"
	MsgSearch  = "search"
	MsgHover   = "hover"
	MsgUnhover = "unhover"
	MsgReload  = "reload"
	MsgPing    = "ping"
)

// Outbound message types
const (
	MsgHello         = "hello"
	MsgNodes         = "nodes"
	MsgEdges         = "edges"
	MsgPositions     = "positions"
	MsgEdgePositions = "edge_positions"
	MsgNodeStyle     = "node_style"
	MsgEdgeStyle     = "edge_style"
	MsgTooltip       = "tooltip"
	MsgError         = "error"
	MsgLogs          = "logs"
)

// Session is what the server drives. *session.Session satisfies it.
type Session interface {
	UpdateLayout(mode string) error
	UpdateFilter(mode string) error
	UpdateSort(mode string) error
	UpdateData(raw graph.RawData) error
	UpdateSearch(term string) ([]string, error)
	HoverEnter(id string) error
	HoverExit() error
	Snapshot() render.Snapshot
	Status() (session.Status, error)
}

// Loader produces the dataset a "reload" message swaps in
type Loader func(ctx context.Context) (graph.RawData, error)

// ClientMessage is a message from a browser
type ClientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"` // mode name or search term
	ID    string `json:"id,omitempty"`    // node id for hover
}

// Envelope wraps every outbound message
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// HelloPayload greets a new client with everything drawn so far
type HelloPayload struct {
	ClientID string          `json:"client_id"`
	Version  string          `json:"version"`
	Snapshot render.Snapshot `json:"snapshot"`
}

// NodePayload is one node shape in a "nodes" message
type NodePayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Artist    string  `json:"artist"`
	Playcount float64 `json:"playcount"`
	Radius    float64 `json:"radius"`
}

// EdgePayload is one edge shape in an "edges" message
type EdgePayload struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NodeStylePayload restyles one node
type NodeStylePayload struct {
	ID    string          `json:"id"`
	Style render.NodeStyle `json:"style"`
}

// EdgeStylePayload restyles one edge
type EdgeStylePayload struct {
	ID    string          `json:"id"`
	Style render.EdgeStyle `json:"style"`
}

// TooltipPayload shows or hides the tooltip
type TooltipPayload struct {
	Visible bool          `json:"visible"`
	Text    string        `json:"text,omitempty"`
	Anchor  render.Anchor `json:"anchor"`
}

// HealthResponse is served at /health
type HealthResponse struct {
	Status  string          `json:"status"`
	Version string          `json:"version"`
	Clients int             `json:"clients"`
	Drops   int64           `json:"frame_drops"`
	Session *session.Status `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}
