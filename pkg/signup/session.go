package signup

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/signup/pkg/reactive"
)

// Session is the state of one visit to the registration form.
//
// Operations are serialized; observers registered with Subscribe run
// synchronously after each change and must not call back into
// UpdateField or Submit.
type Session struct {
	mu     sync.Mutex
	fields *reactive.Signal[Fields]
	status *reactive.Signal[Status]
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for the submission record.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFields seeds the session with initial field values.
func WithFields(f Fields) Option {
	return func(s *Session) {
		s.fields.Set(f)
	}
}

// NewSession creates a session with empty fields in StatusEditing.
func NewSession(opts ...Option) *Session {
	s := &Session{
		fields: reactive.NewSignal(Fields{}),
		status: reactive.NewSignal(StatusEditing),
		logger: slog.Default().With("component", "signup"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fields returns the current field record.
func (s *Session) Fields() Fields {
	return s.fields.Get()
}

// Status returns the current status.
func (s *Session) Status() Status {
	return s.status.Get()
}

// Registered reports whether the form has been submitted.
func (s *Session) Registered() bool {
	return s.Status() == StatusRegistered
}

// UpdateField replaces the value of the field with the given form name.
//
// Only username, email and password are accepted; any other name returns
// an error wrapping ErrUnknownField and leaves the record untouched.
// Updates after registration are stored but do not change the view.
func (s *Session) UpdateField(name, value string) error {
	field, err := ParseField(name)
	if err != nil {
		return err
	}
	s.Set(field, value)
	return nil
}

// Set replaces the value of one field.
func (s *Session) Set(field Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields.Update(func(f Fields) Fields {
		return f.With(field, value)
	})
}

// Submit marks the session registered. It reports whether this call made
// the transition; later calls change nothing and return false.
//
// The first call emits one log record of the submitted fields with the
// password redacted.
func (s *Session) Submit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Get().Terminal() {
		return false
	}

	s.logger.Info("registration submitted", "fields", s.fields.Get())
	s.status.Set(StatusRegistered)
	return true
}

// Subscribe registers fn to run after every change to the fields or the
// status. The returned function removes the subscription.
func (s *Session) Subscribe(fn func()) (unsubscribe func()) {
	stopFields := s.fields.Subscribe(fn)
	stopStatus := s.status.Subscribe(fn)
	return func() {
		stopFields()
		stopStatus()
	}
}

// SubscribeStatus registers fn to run when the status changes.
func (s *Session) SubscribeStatus(fn func(Status)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.status.Subscribe(func() { fn(s.status.Get()) })
}
