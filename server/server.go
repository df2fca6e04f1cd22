// Package server exposes a songnet session over HTTP and WebSocket.
//
// The Server is itself a render.Pipeline: every drawing call the layout
// makes is encoded once and fanned out to connected browsers. Position
// frames are rate limited, and the latest pending frame is always flushed
// so clients end on the settled layout.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/server/wslogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// Options configures a Server
type Options struct {
	AllowedOrigins []string
	// FrameRate caps position frames per second across all clients
	FrameRate float64
	// StreamLogs tees the global logger so command logs reach clients
	StreamLogs bool
	// Loader backs the "reload" message. Nil disables reloads.
	Loader Loader
}

// OptionsFromConfig maps the [server] config section
func OptionsFromConfig(cfg *am.Config) Options {
	return Options{
		AllowedOrigins: cfg.GetServerAllowedOrigins(),
		FrameRate:      cfg.Server.FrameRate,
		StreamLogs:     true,
	}
}

// Server broadcasts a session's drawing calls to WebSocket clients and
// routes their messages back into the session
type Server struct {
	session        Session
	loader         Loader
	allowedOrigins []string

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// frame throttling
	limiter       *rate.Limiter
	frameInterval time.Duration
	frameMu       sync.Mutex
	pending       frame
	frameDrops    atomic.Int64

	// serializes client commands so each gets its own log batch
	cmdMu  sync.Mutex
	cmdSeq atomic.Uint64

	logger        *zap.SugaredLogger
	logCore       *wslogs.Core
	removeLogCore func()

	httpServer *http.Server

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runOnce sync.Once
}

type frame struct {
	positions    []render.NodePosition
	endpoints    []render.EdgeEndpoints
	hasPositions bool
	hasEndpoints bool
}

func (f frame) empty() bool {
	return !f.hasPositions && !f.hasEndpoints
}

// New creates a server. Attach a session before serving.
func New(opts Options) *Server {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		loader:         opts.Loader,
		allowedOrigins: opts.AllowedOrigins,
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		limiter:        rate.NewLimiter(rate.Limit(opts.FrameRate), 1),
		frameInterval:  time.Duration(float64(time.Second) / opts.FrameRate),
		ctx:            ctx,
		cancel:         cancel,
	}

	if opts.StreamLogs {
		s.logCore = wslogs.NewCore(zapcore.InfoLevel)
		s.removeLogCore = logger.AddCore(s.logCore)
	}
	s.logger = logger.ComponentLogger("server")
	return s
}

// Attach sets the session that inbound messages drive
func (s *Server) Attach(sess Session) {
	s.session = sess
}

// SetLoader replaces the dataset source used by "reload"
func (s *Server) SetLoader(l Loader) {
	s.loader = l
}

// Run starts the hub event loop and the frame flusher. It returns when the
// server is stopped.
func (s *Server) Run() {
	s.runOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.flushLoop()
		}()
	})

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}

// handleClientRegister adds a client and queues its hello. The snapshot is
// taken under the write lock so no broadcast can fall between the two.
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", MaxClients)
		client.close()
		return
	}

	hello := HelloPayload{ClientID: client.id, Version: versionString()}
	if s.session != nil {
		hello.Snapshot = s.session.Snapshot()
	}
	if data, err := encode(Envelope{Type: MsgHello, Data: hello}); err == nil {
		client.send <- data
	}

	s.clients[client] = true
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		logger.FieldClientID, client.id,
		"total_clients", total,
		logger.FieldNodes, len(hello.Snapshot.Nodes))
}

func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	if ok {
		s.logger.Infow("Client disconnected",
			logger.FieldClientID, client.id,
			"total_clients", total)
	}
}

// removeSlowClient drops a client whose queue is full. It reconnects and
// receives a fresh hello.
func (s *Server) removeSlowClient(client *Client) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	s.mu.Unlock()
	if !ok {
		return
	}

	client.close()
	s.logger.Warnw("Client send queue full, removing client", logger.FieldClientID, client.id)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	mux.HandleFunc("/api/graph", s.corsMiddleware(s.HandleGraph))
	mux.HandleFunc("/api/status", s.corsMiddleware(s.HandleStatus))
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	return mux
}

// ListenAndServe serves on addr until Stop is called
func (s *Server) ListenAndServe(addr string) error {
	if s.session == nil {
		return errors.New("server has no session attached")
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Infow("HTTP server listening", logger.FieldAddress, addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "failed to serve on %s", addr)
	}
	return nil
}

// Stop shuts the HTTP server down and disconnects every client
func (s *Server) Stop() error {
	s.logger.Infow("Initiating server shutdown")

	var shutdownErr error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		shutdownErr = s.httpServer.Shutdown(ctx)
	}

	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
		delete(s.clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		s.logger.Warnw("Goroutine shutdown timed out", "timeout", ShutdownTimeout)
	}

	s.logger.Infow("Server shutdown complete", "frame_drops", s.frameDrops.Load())
	if s.removeLogCore != nil {
		s.removeLogCore()
		s.removeLogCore = nil
	}
	if shutdownErr != nil {
		return errors.Wrap(shutdownErr, "http shutdown")
	}
	return nil
}
