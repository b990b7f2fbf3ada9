package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/signup/internal/config"
	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/middleware"
	"github.com/vango-dev/signup/pkg/server"
)

type serveOptions struct {
	configPath string
	host       string
	port       int
	dev        bool
	logLevel   string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the registration server",
		Long: `Start the HTTP server that hosts the registration form.

Configuration is read from --config, or from signup.json or signup.hcl in
the working directory. Flags override the file.

Examples:
  signup serve
  signup serve --port=3000 --dev
  signup serve --config=deploy/signup.hcl --host=0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, cmd.OutOrStdout(), os.Stderr)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (.json or .hcl)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Development mode: debug logs and indented HTML")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

// resolveServeConfig loads the configuration, applies flag overrides and
// validates the result.
func resolveServeConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Server.Dev = true
	}
	if opts.logLevel != "" {
		level := config.LogConfig{Level: opts.logLevel}
		if _, err := level.SlogLevel(); err != nil {
			return nil, errors.New("E301").
				WithDetailf("--log-level %q is not one of debug, info, warn, error", opts.logLevel)
		}
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newServerConfig maps the file configuration onto the server's.
func newServerConfig(cfg *config.Config, logger *slog.Logger, metrics *middleware.Metrics) *server.ServerConfig {
	sc := server.DefaultServerConfig()
	sc.Address = cfg.Addr()
	sc.Title = cfg.Server.Title
	sc.Pretty = cfg.Server.Dev
	sc.CookieName = cfg.Session.CookieName
	sc.SecureCookie = cfg.Session.SecureCookie
	sc.SessionIdleTimeout = cfg.IdleTimeout()
	sc.SessionCleanupInterval = cfg.CleanupInterval()
	sc.ReadTimeout = cfg.ReadTimeout()
	sc.WriteTimeout = cfg.WriteTimeout()
	sc.ShutdownTimeout = cfg.ShutdownTimeout()
	sc.Tracing = cfg.Tracing.Enabled
	sc.TracerName = cfg.Tracing.TracerName
	sc.Logger = logger
	sc.MetricsPath = ""
	if cfg.Metrics.Enabled {
		sc.Metrics = metrics
		sc.MetricsPath = cfg.Metrics.Path
	}
	return sc
}

func runServe(ctx context.Context, cfg *config.Config, out, logOut io.Writer) error {
	logger := cfg.NewLogger(logOut)
	slog.SetDefault(logger)

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	s := server.New(newServerConfig(cfg, logger, metrics))

	success(out, "Listening on %s", cfg.URL())
	if cfg.Metrics.Enabled {
		info(out, "Metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
	}
	if path := cfg.Path(); path != "" {
		info(out, "Config from %s", path)
	}

	if err := s.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n  Shut down.")
	return nil
}
