package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/signup/pkg/render"
	"github.com/vango-dev/signup/pkg/vdom"
)

// RenderToString renders a VNode and returns the HTML string.
// Render errors yield an empty string.
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t *testing.T, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t *testing.T, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t *testing.T, node *vdom.VNode, tag string) {
	t.Helper()
	if CountElements(node, tag) == 0 {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(RenderToString(node), 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
//	vtest.ExpectAttribute(t, node, "placeholder", "email")
func ExpectAttribute(t *testing.T, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// CountElements returns how many elements with the given tag the tree
// renders, including elements produced by components.
func CountElements(node *vdom.VNode, tag string) int {
	n := 0
	vdom.Walk(node, func(v *vdom.VNode) bool {
		if v.Kind == vdom.KindElement && v.Tag == tag {
			n++
		}
		return true
	})
	return n
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
