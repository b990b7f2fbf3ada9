package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/signup/internal/config"
	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/signup"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Go version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", `name="username"`, `name="email"`, `name="password"`, ">Register</button>"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}
	if strings.Contains(out, signup.ConfirmationText) {
		t.Error("editing page should not contain the confirmation")
	}
}

func TestRenderRegistered(t *testing.T) {
	out, err := execute(t, "render", "--registered", "--title", "Join")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, signup.ConfirmationText) {
		t.Errorf("expected confirmation, got:\n%s", out)
	}
	if strings.Contains(out, "<input") {
		t.Error("confirmation page should have no inputs")
	}
	if !strings.Contains(out, "<title>Join</title>") {
		t.Error("title flag not applied")
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.hcl")
	hcl := `
server {
  port = 9090
}
log {
  format = "json"
}
`
	if err := os.WriteFile(path, []byte(hcl), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{`"port": 9090`, `"format": "json"`, `"cookieName": "signup_session"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandMissingFile(t *testing.T) {
	_, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, "E100") {
		t.Errorf("expected E100, got %v", err)
	}
}

func TestResolveServeConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.json")
	if err := os.WriteFile(path, []byte(`{"server": {"port": 9000, "host": "127.0.0.1"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveServeConfig(serveOptions{configPath: path, port: 3000, dev: true, logLevel: "warn"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:3000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if !cfg.Server.Dev {
		t.Error("--dev not applied")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestResolveServeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		opts serveOptions
		code string
	}{
		{"bad log level", serveOptions{logLevel: "loud"}, "E301"},
		{"bad port", serveOptions{port: 70000}, "E122"},
		{"missing file", serveOptions{configPath: "/nonexistent/signup.json"}, "E100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveServeConfig(tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestNewServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Dev = true
	cfg.Session.IdleTimeout = "5m"
	cfg.Tracing.Enabled = true

	sc := newServerConfig(cfg, nil, nil)
	if sc.Address != "localhost:8080" {
		t.Errorf("Address = %q", sc.Address)
	}
	if !sc.Pretty {
		t.Error("dev mode should pretty-print")
	}
	if sc.SessionIdleTimeout != 5*time.Minute {
		t.Errorf("SessionIdleTimeout = %v", sc.SessionIdleTimeout)
	}
	if !sc.Tracing || sc.TracerName != "signup" {
		t.Errorf("tracing = %v %q", sc.Tracing, sc.TracerName)
	}
	if sc.MetricsPath != "/metrics" {
		t.Errorf("MetricsPath = %q", sc.MetricsPath)
	}

	cfg.Metrics.Enabled = false
	if sc := newServerConfig(cfg, nil, nil); sc.MetricsPath != "" {
		t.Errorf("metrics disabled but MetricsPath = %q", sc.MetricsPath)
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	cfg := config.New()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Metrics.Enabled = false

	ctx, cancel := context.WithCancel(context.Background())
	var out, logs bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, &out, &logs) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}
