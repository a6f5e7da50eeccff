package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ierrors "github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/snapshot"
	"github.com/ive-dev/ive/pkg/telemetry"
)

// LivePath is the websocket endpoint.
const LivePath = "/_ive/live"

// Config configures the preview server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// LiveRate limits inbound websocket messages per second per
	// connection. Zero disables limiting.
	LiveRate float64

	// LiveBurst is the burst allowed above LiveRate.
	LiveBurst int

	// Settle is passed to snapshot rendering.
	Settle time.Duration

	// Runtime are options for every runtime the server creates.
	Runtime []ive.Option

	// Registry receives the engine metrics and backs /metrics.
	// Default: a new registry.
	Registry *prometheus.Registry

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// Server renders an application over HTTP and keeps one live runtime per
// websocket connection.
type Server struct {
	app      snapshot.App
	config   Config
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// New creates a server for app.
func New(app snapshot.App, config Config) *Server {
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &Server{
		app:     app,
		config:  config,
		logger:  config.Logger.With("component", "devserver"),
		metrics: telemetry.NewMetrics(telemetry.WithRegistry(config.Registry)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		sessions: make(map[*session]struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get(LivePath, s.handleLive)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	r.Get("/*", s.handleSnapshot)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// runtimeOptions returns the options for a new runtime.
func (s *Server) runtimeOptions() []ive.Option {
	s.mu.RLock()
	opts := append([]ive.Option{}, s.config.Runtime...)
	s.mu.RUnlock()
	return append(opts,
		ive.WithLogger(s.config.Logger),
		ive.WithObserver(s.metrics),
		ive.WithObserver(telemetry.NewTracing()),
	)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	html, err := snapshot.Render(r.Context(), s.app, r.URL.RequestURI(),
		snapshot.WithRuntimeOptions(s.runtimeOptions()...),
		snapshot.WithSettle(s.config.Settle),
	)
	if err != nil {
		s.logger.Error("snapshot failed", "path", r.URL.Path, "error", err)
		http.Error(w, ierrors.FromError(err, "E002").FormatCompact(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(injectClient(html)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return ierrors.New("E401").WithField("addr", s.config.Addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return ierrors.New("E401").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ierrors.New("E401").Wrap(err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return ierrors.New("E401").Wrap(err)
	}
	return nil
}

// NotifyReload asks every live client to reload.
func (s *Server) NotifyReload() {
	s.broadcast(Message{Type: TypeReload})
}

// SetRuntimeOptions replaces the options used for new runtimes, for
// example after a configuration reload. Open sessions keep theirs.
func (s *Server) SetRuntimeOptions(opts []ive.Option) {
	s.mu.Lock()
	s.config.Runtime = opts
	s.mu.Unlock()
}

func (s *Server) broadcast(msg Message) {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		sess.send(msg)
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close closes all client connections.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sess := range s.sessions {
		sess.close()
		delete(s.sessions, sess)
	}
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
}
