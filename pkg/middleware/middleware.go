package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/signup/pkg/protocol"
)

// Handler applies one client event.
type Handler func(ctx context.Context, ev *protocol.Event) error

// Middleware decorates a Handler.
type Middleware func(next Handler) Handler

// Chain composes middleware. The first argument is the outermost wrapper.
func Chain(mw ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			if mw[i] != nil {
				next = mw[i](next)
			}
		}
		return next
	}
}

type sessionIDKey struct{}

// WithSessionID returns a context carrying the ID of the session an event
// belongs to.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns the session ID stored by WithSessionID, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// Recover converts a panicking handler into an error with code handler_panic.
func Recover() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev *protocol.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = protocol.NewEventError(protocol.ErrCodeHandlerPanic,
						fmt.Errorf("panic in %s handler: %v", ev.Type, r))
				}
			}()
			return next(ctx, ev)
		}
	}
}

// Logging logs every event at debug level and failures at warn level.
// A nil logger uses slog.Default().
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, ev *protocol.Event) error {
			start := time.Now()
			err := next(ctx, ev)

			attrs := []any{
				"session_id", SessionID(ctx),
				"type", ev.Type,
				"seq", ev.Seq,
				"hid", ev.HID,
				"duration", time.Since(start),
			}
			if err != nil {
				logger.WarnContext(ctx, "event failed", append(attrs, "error", err)...)
			} else {
				logger.DebugContext(ctx, "event handled", attrs...)
			}
			return err
		}
	}
}
