package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teranos/songnet/errors"
	grapherror "github.com/teranos/songnet/graph/error"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/server/wslogs"
	"go.uber.org/zap"
)

// WebSocket timeouts following the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Client messages are tiny commands
	maxMessageSize = 64 * 1024
)

// Client is one WebSocket connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	id        string
	log       *zap.SugaredLogger
	closeOnce sync.Once
}

func newClient(s *Server, conn *websocket.Conn, id string) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, MaxClientMessageQueueSize),
		done:   make(chan struct{}),
		id:     id,
		log:    logger.ChildLogger(s.logger, logger.FieldClientID, id),
	}
}

// readPump reads client messages until the connection fails
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(grapherror.New(grapherror.CategoryParse,
				errors.Wrap(err, "malformed client message"),
				"Message was not valid JSON").
				WithSubcategory(grapherror.SubcategoryParseInvalidMessage))
			continue
		}

		c.server.routeMessage(c, msg)
	}
}

// handleReadError logs unexpected close errors. Normal closures are silent.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseNormalClosure,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		ge := grapherror.New(grapherror.CategoryWebSocket, err, "WebSocket connection closed unexpectedly").
			WithSubcategory(grapherror.SubcategoryWSRead)
		c.log.Warnw("WebSocket read error", ge.ToLogFields()...)
	}
}

// writePump drains the send queue and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			return

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				ge := grapherror.New(grapherror.CategoryWebSocket, err, "Failed to send update to client").
					WithSubcategory(grapherror.SubcategoryWSWrite)
				c.log.Warnw("WebSocket write error", ge.ToLogFields()...)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendError reports err to this client only
func (c *Client) sendError(err error) {
	c.server.sendTo(c, Envelope{Type: MsgError, Data: errorPayload(err)})
}

// close stops the write pump. The connection itself is closed by the pumps.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func errorPayload(err error) map[string]string {
	if ge, ok := grapherror.As(err); ok {
		return ge.ToGraphMeta()
	}
	meta := map[string]string{
		"error":       err.Error(),
		"description": err.Error(),
	}
	if errors.IsNotFoundError(err) {
		meta["category"] = "not_found"
	}
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		meta["hint"] = hints[0]
	}
	return meta
}

// routeMessage dispatches one client message to the session. Commands run
// one at a time, and the logs each produces are sent to clients as a batch.
func (s *Server) routeMessage(c *Client, msg ClientMessage) {
	if msg.Type == MsgPing {
		return
	}
	if s.session == nil {
		c.sendError(grapherror.Newf(grapherror.CategoryInternal,
			"Server is still starting", "no session attached").
			WithSubcategory(grapherror.SubcategoryInternalState))
		return
	}

	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	commandID := fmt.Sprintf("%s-%d", msg.Type, s.cmdSeq.Add(1))
	if s.logCore != nil {
		batcher := wslogs.NewBatcher(commandID, s)
		s.logCore.SetBatcher(batcher)
		defer func() {
			s.logCore.ClearBatcher()
			batcher.Flush()
		}()
	}

	c.log.Debugw("Client command",
		"type", msg.Type,
		"command_id", commandID)

	var err error
	switch msg.Type {
	case MsgLayout:
		err = s.session.UpdateLayout(msg.Value)
	case MsgFilter:
		err = s.session.UpdateFilter(msg.Value)
	case MsgSort:
		err = s.session.UpdateSort(msg.Value)
	case MsgSearch:
		_, err = s.session.UpdateSearch(msg.Value)
	case MsgHover:
		err = s.session.HoverEnter(msg.ID)
	case MsgUnhover:
		err = s.session.HoverExit()
	case MsgReload:
		err = s.reload()
	default:
		err = grapherror.Newf(grapherror.CategoryParse,
			"Unknown message type",
			"unknown message type %q", msg.Type).
			WithSubcategory(grapherror.SubcategoryParseUnknownCommand).
			WithContext("type", msg.Type)
	}

	if err != nil {
		c.log.Infow("Client command failed",
			"type", msg.Type,
			logger.FieldError, err)
		c.sendError(err)
	}
}

// reload pulls a fresh dataset from the loader into the session
func (s *Server) reload() error {
	if s.loader == nil {
		return grapherror.Newf(grapherror.CategoryData,
			"This server has no dataset source to reload from",
			"reload requested without a loader").
			WithSubcategory(grapherror.SubcategoryDataRead)
	}

	raw, err := s.loader(s.ctx)
	if err != nil {
		return err
	}
	if err := s.session.UpdateData(raw); err != nil {
		return err
	}

	s.logger.Infow("Dataset reloaded",
		logger.FieldNodes, len(raw.Nodes),
		logger.FieldLinks, len(raw.Links))
	return nil
}
