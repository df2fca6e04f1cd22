package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/teranos/songnet/errors"
	grapherror "github.com/teranos/songnet/graph/error"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/version"
)

// HandleWebSocket upgrades the connection and starts the client pumps
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ge := grapherror.New(grapherror.CategoryWebSocket, err, "Failed to upgrade WebSocket connection").
			WithSubcategory(grapherror.SubcategoryWSUpgrade)
		s.logger.Errorw("WebSocket upgrade failed", ge.ToLogFields()...)
		return
	}

	client := newClient(s, conn, uuid.NewString())

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
}

// HandleGraph serves what is currently drawn as JSON
func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.session == nil {
		writeError(w, http.StatusServiceUnavailable, "no session attached")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// HandleStatus serves the session status as JSON
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.session == nil {
		writeError(w, http.StatusServiceUnavailable, "no session attached")
		return
	}
	st, err := s.session.Status()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleHealth reports liveness, client count and session status
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:  "ok",
		Version: versionString(),
		Clients: s.ClientCount(),
		Drops:   s.frameDrops.Load(),
	}

	status := http.StatusOK
	if s.session == nil {
		health.Status = "starting"
	} else if st, err := s.session.Status(); err != nil {
		health.Status = "degraded"
		health.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		health.Session = &st
	}

	writeJSON(w, status, health)
}

// checkOrigin allows requests without an Origin header and origins that
// start with one of the configured prefixes, so any port matches
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// corsMiddleware sets CORS headers for allowed origins and answers preflights
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ComponentLogger("server").Debugw("Response encode failed",
			logger.FieldError, errors.Wrap(err, "encode response"))
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requireMethod rejects requests with any other method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

func versionString() string {
	return version.Get().Short()
}
