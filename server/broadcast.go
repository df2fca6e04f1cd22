package server

import (
	"encoding/json"
	"time"

	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/server/wslogs"
)

var _ render.Pipeline = (*Server)(nil)
var _ wslogs.Sink = (*Server)(nil)

func encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s message", env.Type)
	}
	return data, nil
}

// broadcast encodes env once and queues it for every client. Clients with
// a full queue are removed.
func (s *Server) broadcast(env Envelope) int {
	data, err := encode(env)
	if err != nil {
		s.logger.Errorw("Broadcast encode failed", logger.FieldError, err)
		return 0
	}

	s.mu.RLock()
	var slow []*Client
	sent := 0
	for c := range s.clients {
		select {
		case c.send <- data:
			sent++
		default:
			slow = append(slow, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range slow {
		s.removeSlowClient(c)
	}
	return sent
}

// sendTo queues env for one client
func (s *Server) sendTo(c *Client, env Envelope) {
	data, err := encode(env)
	if err != nil {
		s.logger.Errorw("Message encode failed", logger.FieldError, err, logger.FieldClientID, c.id)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		s.removeSlowClient(c)
	}
}

// SyncNodes implements render.Pipeline. Any pending frame belongs to the
// previous shape set and is discarded.
func (s *Server) SyncNodes(nodes []*graph.Node) {
	payload := make([]NodePayload, len(nodes))
	for i, n := range nodes {
		payload[i] = NodePayload{
			ID:        n.ID,
			Name:      n.Name,
			Artist:    n.Artist,
			Playcount: n.Playcount,
			Radius:    n.Radius,
		}
	}
	s.syncShapes(Envelope{Type: MsgNodes, Data: payload})
}

// SyncEdges implements render.Pipeline
func (s *Server) SyncEdges(edges []*graph.Edge) {
	payload := make([]EdgePayload, len(edges))
	for i, e := range edges {
		payload[i] = EdgePayload{ID: e.ID, Source: e.SourceID, Target: e.TargetID}
	}
	s.syncShapes(Envelope{Type: MsgEdges, Data: payload})
}

// UpdateNodePositions implements render.Pipeline. The frame is sent once
// its edge endpoints arrive, or by the flush loop.
func (s *Server) UpdateNodePositions(positions []render.NodePosition) {
	s.frameMu.Lock()
	s.pending.positions = append([]render.NodePosition(nil), positions...)
	s.pending.hasPositions = true
	s.frameMu.Unlock()
}

// SetEdgeEndpoints implements render.Pipeline
func (s *Server) SetEdgeEndpoints(endpoints []render.EdgeEndpoints) {
	s.frameMu.Lock()
	s.pending.endpoints = append([]render.EdgeEndpoints(nil), endpoints...)
	s.pending.hasEndpoints = true
	s.frameMu.Unlock()

	if !s.flushFrame() {
		s.frameDrops.Add(1)
	}
}

// SetNodeStyle implements render.Pipeline
func (s *Server) SetNodeStyle(id string, style render.NodeStyle) {
	s.broadcast(Envelope{Type: MsgNodeStyle, Data: NodeStylePayload{ID: id, Style: style}})
}

// SetEdgeStyle implements render.Pipeline
func (s *Server) SetEdgeStyle(id string, style render.EdgeStyle) {
	s.broadcast(Envelope{Type: MsgEdgeStyle, Data: EdgeStylePayload{ID: id, Style: style}})
}

// ShowTooltip implements render.Pipeline
func (s *Server) ShowTooltip(text string, at render.Anchor) {
	s.broadcast(Envelope{Type: MsgTooltip, Data: TooltipPayload{Visible: true, Text: text, Anchor: at}})
}

// HideTooltip implements render.Pipeline
func (s *Server) HideTooltip() {
	s.broadcast(Envelope{Type: MsgTooltip, Data: TooltipPayload{Visible: false}})
}

// SendBatch implements wslogs.Sink
func (s *Server) SendBatch(batch *wslogs.Batch) {
	s.broadcast(Envelope{Type: MsgLogs, Data: batch})
}

// syncShapes broadcasts a shape set. frameMu is held throughout so a frame
// for the old shapes can never follow it.
func (s *Server) syncShapes(env Envelope) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.pending = frame{}
	s.broadcast(env)
}

// flushFrame sends the pending frame if the limiter allows. It reports
// false when a frame is left pending. frameMu is held while sending so
// frames leave in the order they were produced.
func (s *Server) flushFrame() bool {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.pending.empty() {
		return true
	}
	if !s.limiter.Allow() {
		return false
	}
	f := s.pending
	s.pending = frame{}

	if f.hasPositions {
		s.broadcast(Envelope{Type: MsgPositions, Data: f.positions})
	}
	if f.hasEndpoints {
		s.broadcast(Envelope{Type: MsgEdgePositions, Data: f.endpoints})
	}
	return true
}

// flushLoop drains frames the limiter held back, so the last positions of
// a settled layout always go out
func (s *Server) flushLoop() {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.flushFrame()
		}
	}
}
