package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vango-dev/signup/internal/errors"
)

// hclConfigFile is the top-level structure of signup.hcl. Every block and
// attribute is optional; nil means "keep the default".
type hclConfigFile struct {
	Server  *hclServer  `hcl:"server,block"`
	Session *hclSession `hcl:"session,block"`
	Metrics *hclMetrics `hcl:"metrics,block"`
	Tracing *hclTracing `hcl:"tracing,block"`
	Log     *hclLog     `hcl:"log,block"`
}

type hclServer struct {
	Host            *string `hcl:"host,optional"`
	Port            *int    `hcl:"port,optional"`
	Title           *string `hcl:"title,optional"`
	ReadTimeout     *string `hcl:"read_timeout,optional"`
	WriteTimeout    *string `hcl:"write_timeout,optional"`
	ShutdownTimeout *string `hcl:"shutdown_timeout,optional"`
	Dev             *bool   `hcl:"dev,optional"`
}

type hclSession struct {
	IdleTimeout     *string `hcl:"idle_timeout,optional"`
	CleanupInterval *string `hcl:"cleanup_interval,optional"`
	CookieName      *string `hcl:"cookie_name,optional"`
	SecureCookie    *bool   `hcl:"secure_cookie,optional"`
}

type hclMetrics struct {
	Enabled *bool   `hcl:"enabled,optional"`
	Path    *string `hcl:"path,optional"`
}

type hclTracing struct {
	Enabled    *bool   `hcl:"enabled,optional"`
	TracerName *string `hcl:"tracer_name,optional"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

func decodeHCL(path string, data []byte, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return diagError(diags)
	}

	var parsed hclConfigFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return diagError(diags)
	}

	parsed.applyTo(cfg)
	return nil
}

// diagError converts the first error diagnostic into a located config error.
func diagError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		e := errors.New("E120").
			WithDetail(d.Summary + ": " + d.Detail).
			WithSuggestion("Check the HCL syntax and attribute names").
			Wrap(diags)
		if d.Subject != nil {
			e.WithLocation(d.Subject.Filename, d.Subject.Start.Line, d.Subject.Start.Column)
		}
		return e
	}
	return errors.New("E120").Wrap(diags)
}

func (f *hclConfigFile) applyTo(cfg *Config) {
	if s := f.Server; s != nil {
		setString(&cfg.Server.Host, s.Host)
		setInt(&cfg.Server.Port, s.Port)
		setString(&cfg.Server.Title, s.Title)
		setString(&cfg.Server.ReadTimeout, s.ReadTimeout)
		setString(&cfg.Server.WriteTimeout, s.WriteTimeout)
		setString(&cfg.Server.ShutdownTimeout, s.ShutdownTimeout)
		setBool(&cfg.Server.Dev, s.Dev)
	}
	if s := f.Session; s != nil {
		setString(&cfg.Session.IdleTimeout, s.IdleTimeout)
		setString(&cfg.Session.CleanupInterval, s.CleanupInterval)
		setString(&cfg.Session.CookieName, s.CookieName)
		setBool(&cfg.Session.SecureCookie, s.SecureCookie)
	}
	if m := f.Metrics; m != nil {
		setBool(&cfg.Metrics.Enabled, m.Enabled)
		setString(&cfg.Metrics.Path, m.Path)
	}
	if t := f.Tracing; t != nil {
		setBool(&cfg.Tracing.Enabled, t.Enabled)
		setString(&cfg.Tracing.TracerName, t.TracerName)
	}
	if l := f.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.Format, l.Format)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
