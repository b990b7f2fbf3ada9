package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Defaults for NewRegistry.
const (
	DefaultIdleTimeout     = 30 * time.Minute
	DefaultCleanupInterval = time.Minute
)

// Registry is an in-memory, expiring map of session ID to value.
// It is safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	config  registryConfig
	closed  bool
	done    chan struct{}
}

type entry[T any] struct {
	value      T
	lastActive time.Time
}

// Option configures Registry behavior.
type Option func(*registryConfig)

type registryConfig struct {
	idleTimeout     time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	onExpire        func(id string, remaining int)
}

// WithIdleTimeout sets how long an untouched session stays alive.
// Default: 30 minutes.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *registryConfig) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithCleanupInterval sets how often expired sessions are removed.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *registryConfig) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *registryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithExpireHook registers a function called with the ID of every session
// removed for inactivity and the number of sessions left. It runs without
// the registry lock held.
func WithExpireHook(fn func(id string, remaining int)) Option {
	return func(c *registryConfig) {
		c.onExpire = fn
	}
}

// NewRegistry creates a registry and starts its cleanup loop.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	cfg := registryConfig{
		idleTimeout:     DefaultIdleTimeout,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry[T]{
		entries: make(map[string]*entry[T]),
		config:  cfg,
		done:    make(chan struct{}),
	}

	go r.cleanupLoop(cfg.cleanupInterval)
	return r
}

// Create stores value under a new random ID and returns the ID.
func (r *Registry[T]) Create(value T) (string, error) {
	id, _, err := r.CreateFunc(func(string) T { return value })
	return id, err
}

// CreateFunc stores the value built by newValue under a new random ID.
// newValue receives the ID and runs without the registry lock held.
func (r *Registry[T]) CreateFunc(newValue func(id string) T) (string, T, error) {
	var zero T
	id := uuid.NewString()
	value := newValue(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", zero, ErrStoreClosed{}
	}

	r.entries[id] = &entry[T]{
		value:      value,
		lastActive: r.config.now(),
	}
	return id, value, nil
}

// Get returns the value for id and marks it active.
// Unknown, expired and malformed IDs report false.
func (r *Registry[T]) Get(id string) (T, bool) {
	var zero T
	if _, err := uuid.Parse(id); err != nil {
		return zero, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return zero, false
	}

	e, ok := r.entries[id]
	if !ok {
		return zero, false
	}

	now := r.config.now()
	if r.expired(e, now) {
		return zero, false
	}

	e.lastActive = now
	return e.value, true
}

// Touch marks a session active without returning it.
func (r *Registry[T]) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok && !r.closed {
		e.lastActive = r.config.now()
	}
}

// Delete removes a session.
func (r *Registry[T]) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed{}
	}

	delete(r.entries, id)
	return nil
}

// Count returns the number of sessions held, including expired ones the
// cleanup loop has not removed yet.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close stops the cleanup loop and drops every session.
func (r *Registry[T]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	close(r.done)
	r.entries = nil
	return nil
}

// Cleanup removes expired sessions and returns how many were removed.
func (r *Registry[T]) Cleanup() int {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}

	now := r.config.now()
	var expired []string
	for id, e := range r.entries {
		if r.expired(e, now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(r.entries, id)
	}
	remaining := len(r.entries)
	r.mu.Unlock()

	if r.config.onExpire != nil {
		for _, id := range expired {
			r.config.onExpire(id, remaining)
		}
	}
	return len(expired)
}

func (r *Registry[T]) expired(e *entry[T], now time.Time) bool {
	return now.Sub(e.lastActive) > r.config.idleTimeout
}

// cleanupLoop periodically removes expired sessions.
func (r *Registry[T]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Cleanup()
		case <-r.done:
			return
		}
	}
}
