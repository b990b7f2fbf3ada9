package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/signup/pkg/vdom"
)

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderPage(&buf, PageData{
		Title:        "Sign <up>",
		Body:         vdom.P(vdom.Text("hello")),
		Styles:       []string{"body { margin: 0 }"},
		ClientScript: "/live.js",
		LiveURL:      "/live",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Sign &lt;up&gt;</title>",
		"<style>body { margin: 0 }</style>",
		`<div id="signup-root" data-live="/live"><p>hello</p></div>`,
		`<script src="/live.js" defer></script>`,
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in page:\n%s", want, html)
		}
	}
}

func TestRenderPageDefaults(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderPage(&buf, PageData{Lang: "de", RootID: "app"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, `<html lang="de">`) {
		t.Errorf("lang not applied:\n%s", html)
	}
	if !strings.Contains(html, `<div id="app"></div>`) {
		t.Errorf("root id not applied:\n%s", html)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "<title>") {
		t.Errorf("unexpected optional tags:\n%s", html)
	}
}
