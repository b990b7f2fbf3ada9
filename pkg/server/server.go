package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/middleware"
	"github.com/vango-dev/signup/pkg/session"
	"github.com/vango-dev/signup/pkg/signup"
)

// Server is the HTTP/WebSocket server for the registration form.
type Server struct {
	config   *ServerConfig
	sessions *session.Registry[*signup.Session]
	metrics  *middleware.Metrics
	events   middleware.Middleware
	upgrader websocket.Upgrader
	router   chi.Router
	base     *slog.Logger
	logger   *slog.Logger

	mu         sync.Mutex
	conns      map[*liveConn]struct{}
	httpServer *http.Server
}

// New creates a new Server with the given configuration.
// A nil config uses DefaultServerConfig.
func New(config *ServerConfig) *Server {
	config = config.withDefaults()

	base := config.Logger
	if base == nil {
		base = slog.Default()
	}
	logger := base.With("component", "server")

	s := &Server{
		config:  config,
		metrics: config.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		conns:  make(map[*liveConn]struct{}),
		base:   base,
		logger: logger,
	}

	metrics := config.Metrics
	s.sessions = session.NewRegistry[*signup.Session](
		session.WithIdleTimeout(config.SessionIdleTimeout),
		session.WithCleanupInterval(config.SessionCleanupInterval),
		session.WithExpireHook(func(id string, remaining int) {
			logger.Debug("session expired", "session_id", id)
			metrics.SetActiveSessions(remaining)
		}),
	)

	chain := []middleware.Middleware{
		middleware.Recover(),
		s.metrics.Middleware(),
	}
	if config.Tracing {
		chain = append(chain, middleware.Tracing(
			middleware.WithTracerName(config.TracerName),
			middleware.WithTracerProvider(config.TracerProvider),
		))
	}
	chain = append(chain, middleware.Logging(logger))
	s.events = middleware.Chain(chain...)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handlePage)
	r.Post("/register", s.handleRegister)
	r.Get("/live", s.handleLive)
	r.Get("/live.js", s.handleClientScript)
	r.Get("/healthz", s.handleHealth)

	if s.metrics != nil && s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath, s.metrics.Handler())
	}
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the form session registry.
func (s *Server) Sessions() *session.Registry[*signup.Session] {
	return s.sessions
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		if stderrors.Is(err, syscall.EADDRINUSE) {
			return errors.New("E201").
				WithDetailf("Address %s is already in use.", s.config.Address).
				WithSuggestion("Stop the other process or pass --port").
				Wrap(err)
		}
		return errors.New("E200").Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes live connections, stops the HTTP server and drops all
// form sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*liveConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
	}

	_ = s.sessions.Close()
	s.metrics.SetActiveSessions(0)

	s.logger.Info("server shutdown complete")
	return err
}

func (s *Server) trackConn(c *liveConn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrackConn(c *liveConn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}
