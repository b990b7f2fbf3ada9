package config

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/signup/internal/errors"
)

const (
	// JSONFileName is the name of the JSON configuration file.
	JSONFileName = "signup.json"

	// HCLFileName is the name of the HCL configuration file.
	HCLFileName = "signup.hcl"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultCookieName is the cookie carrying the session ID.
	DefaultCookieName = "signup_session"

	// DefaultMetricsPath is where metrics are exposed when enabled.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the OpenTelemetry tracer name.
	DefaultTracerName = "signup"
)

// Config represents the complete server configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server"`

	// Session contains form session configuration.
	Session SessionConfig `json:"session"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// ReadTimeout bounds reading a request (e.g., "15s").
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout bounds writing a response (e.g., "15s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// Dev enables development mode: debug logging and pretty HTML.
	Dev bool `json:"dev,omitempty"`
}

// SessionConfig contains form session settings.
type SessionConfig struct {
	// IdleTimeout is how long an untouched session is kept (e.g., "30m").
	IdleTimeout string `json:"idleTimeout,omitempty"`

	// CleanupInterval is how often expired sessions are removed.
	CleanupInterval string `json:"cleanupInterval,omitempty"`

	// CookieName is the name of the session cookie.
	CookieName string `json:"cookieName,omitempty"`

	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool `json:"secureCookie,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	Enabled bool `json:"enabled"`

	// Path is the metrics endpoint path.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled starts a span for every live event.
	Enabled bool `json:"enabled"`

	// TracerName is the tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Title:           "Sign up",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			ShutdownTimeout: "10s",
		},
		Session: SessionConfig{
			IdleTimeout:     "30m",
			CleanupInterval: "1m",
			CookieName:      DefaultCookieName,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from dir. It looks for signup.json, then
// signup.hcl. If neither exists the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, HCLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path.
// The format is chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E100").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Check the --config path or omit it to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = decodeJSON(path, data, cfg)
	case ".hcl":
		err = decodeHCL(path, data, cfg)
	default:
		return nil, errors.New("E101").
			WithSuggestion("Rename the file to " + JSONFileName + " or " + HCLFileName)
	}
	if err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func decodeJSON(path string, data []byte, cfg *Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")

		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			e.WithLocation(path, line, col)
		}
		return e.Wrap(err)
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// WriteJSON writes the configuration as indented JSON.
func (c *Config) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveTo writes the configuration to path as JSON.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	defer f.Close()

	if err := c.WriteJSON(f); err != nil {
		return err
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Title == "" {
		c.Server.Title = d.Server.Title
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = d.Session.IdleTimeout
	}
	if c.Session.CleanupInterval == "" {
		c.Session.CleanupInterval = d.Session.CleanupInterval
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = d.Session.CookieName
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetailf("Port %d is out of range; it must be between 1 and 65535.", c.Server.Port)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"session.idleTimeout", c.Session.IdleTimeout},
		{"session.cleanupInterval", c.Session.CleanupInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil || v <= 0 {
			return errors.New("E121").
				WithDetailf("%s %q is not a positive duration", d.name, d.value).
				WithSuggestion(`Use a Go duration such as "30s" or "15m"`)
		}
	}

	if c.Session.CookieName == "" || strings.ContainsAny(c.Session.CookieName, " ;,=") {
		return errors.New("E121").
			WithDetailf("session.cookieName %q is not a valid cookie name", c.Session.CookieName)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E121").
			WithDetailf("metrics.path %q must start with /", c.Metrics.Path)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("E121").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E121").
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Addr()
}

// Duration accessors. Values are checked by Validate; an unparsable value
// yields the default.

// ReadTimeout returns server.readTimeout.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// WriteTimeout returns server.writeTimeout.
func (c *Config) WriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 15*time.Second)
}

// ShutdownTimeout returns server.shutdownTimeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// IdleTimeout returns session.idleTimeout.
func (c *Config) IdleTimeout() time.Duration {
	return parseDuration(c.Session.IdleTimeout, 30*time.Minute)
}

// CleanupInterval returns session.cleanupInterval.
func (c *Config) CleanupInterval() time.Duration {
	return parseDuration(c.Session.CleanupInterval, time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
