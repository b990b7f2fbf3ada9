package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	clientdist "github.com/vango-dev/signup/client/dist"
	"github.com/vango-dev/signup/pkg/protocol"
	"github.com/vango-dev/signup/pkg/render"
	"github.com/vango-dev/signup/pkg/signup"
)

const (
	liveURL       = "/live"
	clientURL     = "/live.js"
	// Three fields of protocol.MaxValueLength, each percent-encoded.
	maxFormBytes = 3*3*protocol.MaxValueLength + 4*1024
)

// handlePage renders the form page for the request's session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	html, err := s.renderPage(sess)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(html)
}

// renderPage renders the complete document for a session.
func (s *Server) renderPage(sess *signup.Session) ([]byte, error) {
	var buf bytes.Buffer
	renderer := render.NewRenderer(render.RendererConfig{Pretty: s.config.Pretty})
	err := renderer.RenderPage(&buf, render.PageData{
		Body:         signup.View(sess),
		Title:        s.config.Title,
		ClientScript: clientURL,
		LiveURL:      liveURL,
	})
	return buf.Bytes(), err
}

// handleRegister applies a posted form and submits it. It serves clients
// that post the form without the live connection.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// Reject the whole post if any name is unknown, before applying anything.
	// Values obey the same bound as live input events.
	for name, values := range r.PostForm {
		if _, err := signup.ParseField(name); err != nil {
			s.logger.Warn("rejected form post", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, v := range values {
			if len(v) > protocol.MaxValueLength {
				s.logger.Warn("rejected form post", "field", name, "bytes", len(v))
				http.Error(w, protocol.ErrValueTooLong.Error(), http.StatusRequestEntityTooLarge)
				return
			}
		}
	}

	id, sess, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	for _, field := range signup.AllFields {
		if values, ok := r.PostForm[field.String()]; ok && len(values) > 0 {
			sess.Set(field, values[0])
		}
	}
	if sess.Submit() {
		s.logger.Debug("registered via form post", "session_id", id)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(clientdist.LiveJS)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Sessions: s.sessions.Count(),
	}); err != nil {
		s.logger.Error("health response failed", "error", fmt.Errorf("encode: %w", err))
	}
}
