// Package inspect serves a live view of a diff container over HTTP.
//
// The server streams every committed journal to websocket clients as a
// binary frame (see journal.Encode), serves the last frame in readable
// form, the surface markup as of the last applied commit and Prometheus
// metrics. The markup is captured on the committing goroutine; HTTP handlers
// never touch the surface.
//
// Usage:
//
//	srv := inspect.NewServer(inspect.WithHTML(body.InnerHTML))
//	c := diff.NewContainer(body, diff.WithObserver(srv))
//	go http.ListenAndServe(":7357", srv.Handler())
package inspect

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reconcile/pkg/journal"
)

// DefaultPath is the route prefix used when none is configured.
const DefaultPath = "/_reconcile"

// Server publishes journal frames to connected inspectors.
type Server struct {
	logger   *slog.Logger
	path     string
	gatherer prometheus.Gatherer
	html     func() string

	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	wmu      sync.Mutex // serializes websocket writes

	last   []byte
	frames uint64
	markup *string // surface snapshot, nil until captured
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With("component", "inspect")
	}
}

// WithPath sets the route prefix.
func WithPath(path string) Option {
	return func(s *Server) {
		s.path = "/" + strings.Trim(path, "/")
	}
}

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHTML sets the function that renders the surface markup. It is called
// from NewServer and from ObserveApplied only.
func WithHTML(fn func() string) Option {
	return func(s *Server) {
		s.html = fn
	}
}

// NewServer creates an inspector server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:   slog.Default().With("component", "inspect"),
		path:     DefaultPath,
		gatherer: prometheus.DefaultGatherer,
		clients:  make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot()
	return s
}

// Handler returns the HTTP routes:
//
//	GET {path}/stream   websocket of binary journal frames
//	GET {path}/journal  last frame, one record per line
//	GET {path}/html     surface markup as of the last commit
//	GET /metrics        Prometheus exposition
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route(s.path, func(r chi.Router) {
		r.Get("/stream", s.handleStream)
		r.Get("/journal", s.handleJournal)
		r.Get("/html", s.handleHTML)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// ObserveCommit encodes j and publishes it.
func (s *Server) ObserveCommit(seq uint64, j *journal.Journal) {
	s.Publish(journal.Encode(seq, j))
}

// ObserveApplied captures the surface markup after a commit was replayed.
func (s *Server) ObserveApplied(seq uint64) {
	s.snapshot()
}

func (s *Server) snapshot() {
	if s.html == nil {
		return
	}
	markup := s.html()
	s.mu.Lock()
	s.markup = &markup
	s.mu.Unlock()
}

// Publish stores frame as the latest and sends it to every client.
func (s *Server) Publish(frame []byte) {
	s.mu.Lock()
	s.last = frame
	s.frames++
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.Unlock()

	for _, client := range clients {
		if err := s.write(client, frame); err != nil {
			s.logger.Debug("drop inspector client", "error", err)
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	last := s.last
	s.mu.Unlock()

	if last != nil {
		if err := s.write(conn, last); err != nil {
			s.remove(conn)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.remove(conn)
}

func (s *Server) write(conn *websocket.Conn, frame []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Server) remove(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		http.Error(w, "no journal committed", http.StatusNotFound)
		return
	}
	frame, err := journal.Decode(last)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(frame.String()))
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	markup := s.markup
	s.mu.RUnlock()

	if markup == nil {
		http.Error(w, "no surface attached", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(*markup))
}

// Frames returns the number of frames published.
func (s *Server) Frames() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects all clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}
