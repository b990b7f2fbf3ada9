package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/signup/pkg/middleware"
	"go.opentelemetry.io/otel/trace"
)

// ServerConfig holds configuration for the server.
type ServerConfig struct {
	// Address is the listen address (e.g., "localhost:8080").
	Address string

	// Title is the page title.
	Title string

	// Pretty renders indented HTML. Useful in development.
	Pretty bool

	// CookieName is the name of the session cookie.
	CookieName string

	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool

	// SessionIdleTimeout is how long an untouched form session is kept.
	SessionIdleTimeout time.Duration

	// SessionCleanupInterval is how often expired sessions are removed.
	SessionCleanupInterval time.Duration

	// ReadHeaderTimeout, ReadTimeout and WriteTimeout configure http.Server.
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// PingInterval is the time between WebSocket pings. A connection that
	// sends nothing (not even a pong) for twice this long is closed.
	PingInterval time.Duration

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// Nil uses gorilla/websocket's same-origin check.
	CheckOrigin func(r *http.Request) bool

	// Metrics records Prometheus metrics. Nil disables them.
	Metrics *middleware.Metrics

	// MetricsPath is where Metrics is exposed. Empty disables the endpoint.
	MetricsPath string

	// Tracing starts an OpenTelemetry span per live event.
	Tracing bool

	// TracerName is the OpenTelemetry tracer name.
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// Logger is the base logger. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:                "localhost:8080",
		Title:                  "Sign up",
		CookieName:             "signup_session",
		SessionIdleTimeout:     30 * time.Minute,
		SessionCleanupInterval: time.Minute,
		ReadHeaderTimeout:      5 * time.Second,
		ReadTimeout:            15 * time.Second,
		WriteTimeout:           15 * time.Second,
		ShutdownTimeout:        10 * time.Second,
		PingInterval:           30 * time.Second,
		MetricsPath:            "/metrics",
		TracerName:             "signup",
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	d := DefaultServerConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.CookieName == "" {
		out.CookieName = d.CookieName
	}
	if out.SessionIdleTimeout <= 0 {
		out.SessionIdleTimeout = d.SessionIdleTimeout
	}
	if out.SessionCleanupInterval <= 0 {
		out.SessionCleanupInterval = d.SessionCleanupInterval
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = d.PingInterval
	}
	if out.TracerName == "" {
		out.TracerName = d.TracerName
	}
	return &out
}
