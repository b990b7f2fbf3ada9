package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/signup/pkg/protocol"
	"github.com/vango-dev/signup/pkg/signup"
)

// HIDs of the editing view, in render order.
const (
	hidForm     = "h1"
	hidUsername = "h2"
	hidEmail    = "h3"
	hidPassword = "h4"
)

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{Jar: e.jar, HandshakeTimeout: 5 * time.Second}
	wsURL := "ws" + strings.TrimPrefix(e.http.URL, "http") + liveURL

	conn, resp, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	data, err := protocol.EncodeEvent(ev)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readMessage(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.DecodeMessage(data)
	require.NoError(t, err)
	return msg
}

// readUntil skips messages until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ protocol.MessageType) *protocol.Message {
	t.Helper()
	for i := 0; i < 5; i++ {
		if msg := readMessage(t, conn); msg.Type == typ {
			return msg
		}
	}
	t.Fatalf("no %s message received", typ)
	return nil
}

func input(seq uint64, hid, name, value string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventInput, Seq: seq, HID: hid, Name: name, Value: value}
}

func TestLiveInputUpdatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageAck, msg.Type)
	assert.Equal(t, uint64(1), msg.Seq)

	sendEvent(t, conn, input(2, hidPassword, "password", "hunter2"))
	assert.Equal(t, protocol.MessageAck, readMessage(t, conn).Type)

	sess := env.session(t)
	assert.Equal(t, signup.Fields{Username: "alice", Password: "hunter2"}, sess.Fields())
	assert.False(t, sess.Registered())
	assert.NotContains(t, env.logs.String(), "hunter2")
}

func TestLiveFullScenario(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	sendEvent(t, conn, input(2, hidEmail, "email", "a@x.io"))
	sendEvent(t, conn, input(3, hidPassword, "password", "pw"))
	for seq := uint64(1); seq <= 3; seq++ {
		msg := readMessage(t, conn)
		require.Equal(t, protocol.MessageAck, msg.Type)
		assert.Equal(t, seq, msg.Seq)
	}

	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 4, HID: hidForm})
	render := readUntil(t, conn, protocol.MessageRender)
	assert.Contains(t, render.HTML, signup.ConfirmationText)
	assert.NotContains(t, render.HTML, "<input")
	assert.NotContains(t, render.HTML, "<form")

	sess := env.session(t)
	assert.True(t, sess.Registered())
	assert.Equal(t, signup.Fields{Username: "alice", Email: "a@x.io", Password: "pw"}, sess.Fields())

	// The page now renders the confirmation too.
	_, body := env.get(t, "/")
	assert.Contains(t, body, signup.ConfirmationText)
}

func TestLiveSubmitTwiceStaysRegistered(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 1, HID: hidForm})
	readUntil(t, conn, protocol.MessageRender)

	// The confirmation has no handlers; the stale form HID is rejected.
	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 2, HID: hidForm})
	msg := readUntil(t, conn, protocol.MessageError)
	assert.Equal(t, protocol.ErrCodeHandlerNotFound, msg.Code)
	assert.Equal(t, uint64(2), msg.Seq)

	assert.True(t, env.session(t).Registered())
	assert.Equal(t, 1, strings.Count(env.logs.String(), "registration submitted"))
}

func TestLiveUnknownHID(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 1, HID: "h99"})
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageError, msg.Type)
	assert.Equal(t, protocol.ErrCodeHandlerNotFound, msg.Code)

	// Submitting through an input's HID finds no submit handler either.
	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 2, HID: hidUsername})
	assert.Equal(t, protocol.ErrCodeHandlerNotFound, readMessage(t, conn).Code)

	// The connection survives errors.
	sendEvent(t, conn, &protocol.Event{Type: protocol.EventPing})
	assert.Equal(t, protocol.MessagePong, readMessage(t, conn).Type)
	assert.False(t, env.session(t).Registered())
}

func TestLiveRejectsUnknownFieldName(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, input(1, hidUsername, "nickname", "al"))
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageError, msg.Type)
	assert.Equal(t, protocol.ErrCodeValidation, msg.Code)
	assert.Contains(t, msg.Message, "unknown field")

	assert.Equal(t, signup.Fields{}, env.session(t).Fields())
}

func TestLiveMalformedMessages(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageError, msg.Type)
	assert.Equal(t, protocol.ErrCodeInvalidEvent, msg.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"click","hid":"h1"}`)))
	assert.Equal(t, protocol.ErrCodeInvalidEvent, readMessage(t, conn).Code)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}))
	assert.Equal(t, protocol.ErrCodeInvalidEvent, readMessage(t, conn).Code)
}

func TestLiveWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageError, msg.Type)
	assert.Equal(t, protocol.ErrCodeSessionExpired, msg.Code)
	assert.True(t, msg.Code.Fatal())

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)
}

func TestLiveSendsConfirmationWhenAlreadyRegistered(t *testing.T) {
	env := newTestEnv(t)
	env.postForm(t, url.Values{"username": {"alice"}})

	conn := env.dial(t)
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.MessageRender, msg.Type)
	assert.Contains(t, msg.HTML, signup.ConfirmationText)
}

func TestLivePushesRenderOnFallbackSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	// Make sure the connection is serving before the status changes.
	sendEvent(t, conn, &protocol.Event{Type: protocol.EventPing})
	require.Equal(t, protocol.MessagePong, readMessage(t, conn).Type)

	env.postForm(t, url.Values{"username": {"alice"}})

	msg := readUntil(t, conn, protocol.MessageRender)
	assert.Contains(t, msg.HTML, signup.ConfirmationText)
}

func TestLiveSecondTabReceivesRender(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	first := env.dial(t)
	second := env.dial(t)

	sendEvent(t, second, &protocol.Event{Type: protocol.EventPing})
	require.Equal(t, protocol.MessagePong, readMessage(t, second).Type)

	sendEvent(t, first, &protocol.Event{Type: protocol.EventSubmit, Seq: 1, HID: hidForm})
	readUntil(t, first, protocol.MessageRender)

	msg := readUntil(t, second, protocol.MessageRender)
	assert.Contains(t, msg.HTML, signup.ConfirmationText)
}

func TestLiveSessionExpired(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	u, _ := url.Parse(env.http.URL)
	for _, c := range env.jar.Cookies(u) {
		require.NoError(t, env.server.Sessions().Delete(c.Value))
	}

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	msg := readMessage(t, conn)
	assert.Equal(t, protocol.ErrCodeSessionExpired, msg.Code)

	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection should be closed")
}

func TestShutdownClosesLiveConnections(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, &protocol.Event{Type: protocol.EventPing})
	require.Equal(t, protocol.MessagePong, readMessage(t, conn).Type)

	require.NoError(t, env.server.Shutdown(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestLiveMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	readMessage(t, conn)
	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 2, HID: "h42"})
	readMessage(t, conn)

	_, body := env.get(t, "/metrics")
	assert.Contains(t, body, `signup_events_total{result="ok",type="input"} 1`)
	assert.Contains(t, body, `signup_events_total{result="handler_not_found",type="submit"} 1`)
	assert.Contains(t, body, "signup_live_connections 1")
}

func TestLiveAcceptsLongValues(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")
	conn := env.dial(t)

	long := strings.Repeat("a", 5000)
	sendEvent(t, conn, input(1, hidUsername, "username", long))
	assert.Equal(t, protocol.MessageAck, readMessage(t, conn).Type)

	// Control characters travel as \u escapes, the largest encoding.
	escaped := strings.Repeat("\x01", protocol.MaxValueLength)
	sendEvent(t, conn, input(2, hidEmail, "email", escaped))
	assert.Equal(t, protocol.MessageAck, readMessage(t, conn).Type)

	sendEvent(t, conn, input(3, hidPassword, "password", escaped+"x"))
	assert.Equal(t, protocol.ErrCodeInvalidEvent, readMessage(t, conn).Code)

	sendEvent(t, conn, &protocol.Event{Type: protocol.EventSubmit, Seq: 4, HID: hidForm})
	readUntil(t, conn, protocol.MessageRender)

	assert.Equal(t, signup.Fields{Username: long, Email: escaped}, env.session(t).Fields())
}

func shortSessions(config *ServerConfig) {
	config.SessionIdleTimeout = 300 * time.Millisecond
	config.SessionCleanupInterval = 50 * time.Millisecond
}

func TestLivePingsKeepSessionAlive(t *testing.T) {
	env := newTestEnv(t, shortSessions)
	env.get(t, "/")
	conn := env.dial(t)

	for i := 0; i < 8; i++ {
		time.Sleep(100 * time.Millisecond)
		sendEvent(t, conn, &protocol.Event{Type: protocol.EventPing})
		require.Equal(t, protocol.MessagePong, readMessage(t, conn).Type)
	}

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	assert.Equal(t, protocol.MessageAck, readMessage(t, conn).Type)
	assert.Equal(t, 1, env.server.Sessions().Count())
}

func TestLivePongsKeepSessionAlive(t *testing.T) {
	env := newTestEnv(t, shortSessions, func(config *ServerConfig) {
		config.PingInterval = 100 * time.Millisecond
	})
	env.get(t, "/")
	conn := env.dial(t)

	// Reading lets the client answer server pings with pongs.
	msgs := make(chan *protocol.Message, 8)
	go func() {
		defer close(msgs)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msg, err := protocol.DecodeMessage(data); err == nil {
				msgs <- msg
			}
		}
	}()

	time.Sleep(800 * time.Millisecond)

	sendEvent(t, conn, input(1, hidUsername, "username", "alice"))
	select {
	case msg, ok := <-msgs:
		require.True(t, ok, "connection closed")
		assert.Equal(t, protocol.MessageAck, msg.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply to input")
	}
	assert.Equal(t, "alice", env.session(t).Fields().Username)
}

func TestIdleSessionExpiresWithoutConnection(t *testing.T) {
	env := newTestEnv(t, shortSessions)
	env.get(t, "/")

	assert.Eventually(t, func() bool {
		return env.server.Sessions().Count() == 0
	}, 2*time.Second, 20*time.Millisecond)
}
