package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/middleware"
	"github.com/vango-dev/signup/pkg/protocol"
	"github.com/vango-dev/signup/pkg/render"
	"github.com/vango-dev/signup/pkg/signup"
)

const writeWait = 10 * time.Second

// liveConn is one WebSocket connection bound to a form session.
type liveConn struct {
	server  *Server
	id      string
	session *signup.Session
	conn    *websocket.Conn
	handler middleware.Handler
	logger  *slog.Logger

	// mu guards the renderer and the last rendered status. The renderer
	// holds the handler registry the client's HIDs refer to.
	mu       sync.Mutex
	renderer *render.Renderer
	rendered signup.Status

	writeMu sync.Mutex

	statusCh  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// handleLive upgrades the request and serves the live connection.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id, sess, lookupErr := s.lookupSession(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.metrics.RecordWebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", errors.New("E210").WithDetail(err.Error()).Wrap(err))
		return
	}

	if lookupErr != nil {
		msg := protocol.NewError(0, protocol.ErrCodeSessionExpired, "session not found; reload the page")
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(msg)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session not found"))
		_ = conn.Close()
		return
	}

	c := &liveConn{
		server:   s,
		id:       id,
		session:  sess,
		conn:     conn,
		logger:   s.logger.With("session_id", id),
		renderer: render.NewRenderer(render.RendererConfig{Pretty: s.config.Pretty}),
		statusCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	c.handler = s.events(c.dispatch)
	c.serve(r.Context())
}

func (c *liveConn) serve(ctx context.Context) {
	s := c.server
	s.trackConn(c)
	s.metrics.ConnectionOpened()
	defer func() {
		c.close(websocket.CloseNormalClosure, "")
		s.untrackConn(c)
		s.metrics.ConnectionClosed()
		c.logger.Debug("live connection closed")
	}()

	ctx = middleware.WithSessionID(ctx, c.id)

	// Build the handler registry for the view the client has. If the
	// session registered before this connection opened, the client shows
	// a stale form: send it the current view.
	c.mu.Lock()
	html, err := c.renderLocked()
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("initial render failed", "error", err)
		return
	}
	if c.rendered.Terminal() {
		if err := c.send(protocol.NewRender(0, html)); err != nil {
			return
		}
	}

	unsubscribe := c.session.SubscribeStatus(func(signup.Status) {
		select {
		case c.statusCh <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	go c.pingLoop()
	go c.watchStatus()

	c.logger.Debug("live connection opened")
	c.readLoop(ctx)
}

func (c *liveConn) readLoop(ctx context.Context) {
	pongWait := 2 * c.server.config.PingInterval

	c.conn.SetReadLimit(protocol.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.server.sessions.Touch(c.id)
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.server.metrics.RecordWebSocketError("read")
				c.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			c.server.metrics.RecordWebSocketError("binary")
			if c.send(protocol.NewError(0, protocol.ErrCodeInvalidEvent, "expected a text message")) != nil {
				return
			}
			continue
		}

		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			c.server.metrics.RecordWebSocketError("decode")
			if c.send(protocol.NewError(0, protocol.CodeFor(err), err.Error())) != nil {
				return
			}
			continue
		}

		if !c.handleEvent(ctx, ev) {
			return
		}
	}
}

// handleEvent runs one event and answers it. It returns false when the
// connection should end.
func (c *liveConn) handleEvent(ctx context.Context, ev *protocol.Event) bool {
	if ev.Type == protocol.EventPing {
		c.server.sessions.Touch(c.id)
		return c.send(protocol.NewPong()) == nil
	}

	if _, ok := c.server.sessions.Get(c.id); !ok {
		_ = c.send(protocol.NewError(ev.Seq, protocol.ErrCodeSessionExpired, "session expired; reload the page"))
		return false
	}

	if err := c.handler(ctx, ev); err != nil {
		return c.send(protocol.NewError(ev.Seq, protocol.CodeFor(err), err.Error())) == nil
	}

	msg, err := c.refresh(ev.Seq)
	if err != nil {
		c.logger.Error("render failed", "error", err)
		_ = c.send(protocol.NewError(ev.Seq, protocol.ErrCodeServerError, "render failed"))
		return false
	}
	if msg == nil {
		msg = protocol.NewAck(ev.Seq)
	}
	return c.send(msg) == nil
}

// dispatch calls the handler registered for the event's HID.
func (c *liveConn) dispatch(ctx context.Context, ev *protocol.Event) error {
	if ev.Type == protocol.EventInput && ev.Name != "" {
		if _, err := signup.ParseField(ev.Name); err != nil {
			return protocol.NewEventError(protocol.ErrCodeValidation, err)
		}
	}

	c.mu.Lock()
	h, ok := c.renderer.Handler(ev.HID, ev.Type.DOMEvent())
	c.mu.Unlock()
	if !ok {
		return protocol.NewEventError(protocol.ErrCodeHandlerNotFound,
			fmt.Errorf("%w: %s on %s", ErrHandlerNotFound, ev.Type, ev.HID))
	}

	switch fn := h.Handler.(type) {
	case func():
		fn()
	case func(string):
		fn(ev.Value)
	case func(string) error:
		if err := fn(ev.Value); err != nil {
			return protocol.NewEventError(protocol.ErrCodeValidation, err)
		}
	default:
		return protocol.NewEventError(protocol.ErrCodeServerError,
			fmt.Errorf("%w %T", ErrUnsupportedHandler, h.Handler))
	}
	return nil
}

// refresh re-renders when the status differs from the last render and
// returns the render message, or nil when the client view is current.
func (c *liveConn) refresh(seq uint64) (*protocol.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status() == c.rendered {
		return nil, nil
	}
	html, err := c.renderLocked()
	if err != nil {
		return nil, err
	}
	return protocol.NewRender(seq, html), nil
}

// renderLocked renders the session view, replacing the handler registry.
// c.mu must be held.
func (c *liveConn) renderLocked() (string, error) {
	status := c.session.Status()
	c.renderer.Reset()
	html, err := c.renderer.RenderToString(signup.View(c.session))
	if err != nil {
		return "", err
	}
	c.rendered = status
	return html, nil
}

// watchStatus pushes a render when the session changes status through
// another connection or the form fallback.
func (c *liveConn) watchStatus() {
	for {
		select {
		case <-c.statusCh:
			msg, err := c.refresh(0)
			if err != nil {
				c.logger.Error("render failed", "error", err)
				continue
			}
			if msg != nil && c.send(msg) != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *liveConn) pingLoop() {
	ticker := time.NewTicker(c.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.server.metrics.RecordWebSocketError("ping")
				c.close(websocket.CloseGoingAway, "")
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *liveConn) send(msg *protocol.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.server.metrics.RecordWebSocketError("write")
		return err
	}
	return nil
}

// close sends a close frame and closes the connection. Safe to call more
// than once and from any goroutine.
func (c *liveConn) close(code int, text string) {
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
}
