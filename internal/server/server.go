package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edgecount/edgecount/internal/session"
)

// Server serves the session API over WebSocket, with health and metrics
// endpoints on the side.
type Server struct {
	addr     string
	manager  *session.Manager
	metrics  *Metrics
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	connections map[*Connection]struct{}
}

// New creates a server around an existing session manager.
func New(addr string, manager *session.Manager, logger zerolog.Logger) *Server {
	s := &Server{
		addr:    addr,
		manager: manager,
		log:     logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The protocol carries no credentials, origin checks add nothing
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connections: make(map[*Connection]struct{}),
	}
	s.metrics = NewMetrics(func() float64 { return float64(manager.ActiveSessions()) })
	return s
}

// Handler returns the HTTP mux. Split out so tests can mount it on an
// httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

// Run serves until the context is cancelled, then drains connections and
// shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.addr, Handler: s.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.manager.Run(ctx)
	})
	g.Go(func() error {
		s.log.Info().Str("addr", s.addr).Msg("listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.closeConnections()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewConnection(conn, s.manager, s.metrics, s.log)
	s.track(client)
	s.metrics.ConnectionsActive.Inc()
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	client.Start()

	s.untrack(client)
	s.metrics.ConnectionsActive.Dec()
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) track(c *Connection) {
	s.mu.Lock()
	s.connections[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	s.mu.Unlock()
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.connections {
		_ = c.Close()
	}
}
