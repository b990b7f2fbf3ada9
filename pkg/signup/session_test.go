package signup

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewSession(WithLogger(logger)), &buf
}

func TestNewSessionInitialState(t *testing.T) {
	s := NewSession()

	if s.Fields() != (Fields{}) {
		t.Errorf("expected empty fields, got %+v", s.Fields())
	}
	if s.Status() != StatusEditing || s.Registered() {
		t.Errorf("expected editing, got %v", s.Status())
	}
}

func TestUpdateFieldSequence(t *testing.T) {
	s := NewSession()

	if err := s.UpdateField("email", "a@b.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateField("username", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Fields{Username: "alice", Email: "a@b.com", Password: ""}
	if got := s.Fields(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUpdateFieldIsFieldLocal(t *testing.T) {
	s := NewSession(WithFields(Fields{Username: "u", Email: "e", Password: "p"}))

	updates := []struct {
		name, value string
	}{
		{"username", "bob"},
		{"password", ""},
		{"email", "x@y.z"},
		{"username", ""},
		{"password", "hunter2"},
	}

	for _, u := range updates {
		before := s.Fields()
		if err := s.UpdateField(u.name, u.value); err != nil {
			t.Fatalf("UpdateField(%q): %v", u.name, err)
		}
		after := s.Fields()

		field, _ := ParseField(u.name)
		for _, other := range AllFields {
			if other == field {
				if after.Get(other) != u.value {
					t.Errorf("%v = %q, want %q", other, after.Get(other), u.value)
				}
				continue
			}
			if after.Get(other) != before.Get(other) {
				t.Errorf("update of %v changed %v: %q -> %q", field, other, before.Get(other), after.Get(other))
			}
		}
	}
}

func TestUpdateFieldRejectsUnknownName(t *testing.T) {
	s := NewSession(WithFields(Fields{Username: "u"}))

	calls := 0
	s.Subscribe(func() { calls++ })

	err := s.UpdateField("isAdmin", "true")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !strings.Contains(err.Error(), `"isAdmin"`) {
		t.Errorf("error should name the field: %v", err)
	}
	if s.Fields() != (Fields{Username: "u"}) {
		t.Errorf("record changed: %+v", s.Fields())
	}
	if calls != 0 {
		t.Errorf("observers notified %d times for a rejected update", calls)
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	s, logs := newTestSession(t)
	s.UpdateField("username", "bob")

	if !s.Submit() {
		t.Fatal("first Submit should make the transition")
	}
	fields := s.Fields()

	if s.Submit() {
		t.Error("second Submit should not report a transition")
	}
	if !s.Registered() || s.Status() != StatusRegistered {
		t.Errorf("expected registered, got %v", s.Status())
	}
	if s.Fields() != fields {
		t.Errorf("Submit altered fields: %+v -> %+v", fields, s.Fields())
	}
	if n := strings.Count(logs.String(), "registration submitted"); n != 1 {
		t.Errorf("expected one submission record, got %d:\n%s", n, logs.String())
	}
}

func TestSubmitWithEmptyFields(t *testing.T) {
	s, _ := newTestSession(t)
	s.Submit()
	if !s.Registered() {
		t.Error("Submit must succeed without any field being set")
	}
}

func TestSubmitLogRedactsPassword(t *testing.T) {
	s, logs := newTestSession(t)
	s.UpdateField("username", "bob")
	s.UpdateField("email", "bob@x.com")
	s.UpdateField("password", "secret")
	s.Submit()

	out := logs.String()
	if strings.Contains(out, "secret") {
		t.Errorf("password leaked: %s", out)
	}
	if !strings.Contains(out, "fields.username=bob") || !strings.Contains(out, "fields.email=bob@x.com") {
		t.Errorf("submission record missing fields: %s", out)
	}
}

func TestUpdateAfterRegistrationIsInert(t *testing.T) {
	s, _ := newTestSession(t)
	s.Submit()

	if err := s.UpdateField("username", "late"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Fields().Username != "late" {
		t.Error("update should still be stored")
	}
	if !s.Registered() {
		t.Error("status must stay registered")
	}
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	s, _ := newTestSession(t)

	calls := 0
	stop := s.Subscribe(func() { calls++ })

	s.UpdateField("username", "a")
	s.UpdateField("username", "a") // unchanged
	s.Submit()
	s.Submit() // no transition

	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}

	stop()
	s.UpdateField("email", "x")
	if calls != 2 {
		t.Errorf("notified after unsubscribe: %d", calls)
	}
}

func TestSubscribeStatus(t *testing.T) {
	s, _ := newTestSession(t)

	var seen []Status
	s.SubscribeStatus(func(st Status) { seen = append(seen, st) })
	s.SubscribeStatus(nil)()

	s.UpdateField("email", "x")
	s.Submit()

	if len(seen) != 1 || seen[0] != StatusRegistered {
		t.Errorf("unexpected status notifications %v", seen)
	}
}

func TestObserverCanRenderDuringUpdate(t *testing.T) {
	s, _ := newTestSession(t)

	var last string
	s.Subscribe(func() {
		last = View(s).Tag
	})

	s.UpdateField("username", "x")
	if last != "form" {
		t.Errorf("expected form view, got %q", last)
	}
	s.Submit()
	if last != "p" {
		t.Errorf("expected confirmation view, got %q", last)
	}
}
