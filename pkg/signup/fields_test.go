package signup

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		want    Field
		wantErr bool
	}{
		{"username", FieldUsername, false},
		{"email", FieldEmail, false},
		{"password", FieldPassword, false},
		{"Username", 0, true},
		{"", 0, true},
		{"role", 0, true},
		{"password ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseField(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownField) {
					t.Fatalf("expected ErrUnknownField, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseField(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFieldStringRoundTrip(t *testing.T) {
	for _, f := range AllFields {
		parsed, err := ParseField(f.String())
		if err != nil || parsed != f {
			t.Errorf("round trip of %v failed: %v, %v", f, parsed, err)
		}
	}
	if got := Field(9).String(); got != "Field(9)" {
		t.Errorf("unexpected name for unknown field: %q", got)
	}
}

func TestFieldsWithIsFieldLocal(t *testing.T) {
	base := Fields{Username: "u", Email: "e", Password: "p"}

	for _, f := range AllFields {
		next := base.With(f, "changed")
		for _, other := range AllFields {
			want := base.Get(other)
			if other == f {
				want = "changed"
			}
			if got := next.Get(other); got != want {
				t.Errorf("With(%v): field %v = %q, want %q", f, other, got, want)
			}
		}
	}

	if base.Username != "u" {
		t.Error("With must not mutate the receiver")
	}
	if got := base.With(Field(7), "x"); got != base {
		t.Errorf("unknown field should leave record unchanged, got %+v", got)
	}
}

func TestFieldsLogValueRedactsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("test", "fields", Fields{Username: "bob", Email: "bob@x.com", Password: "secret"})
	out := buf.String()

	if strings.Contains(out, "secret") {
		t.Errorf("password leaked into log: %s", out)
	}
	for _, want := range []string{"fields.username=bob", "fields.email=bob@x.com", "fields.password=[REDACTED]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}

	buf.Reset()
	logger.Info("test", "fields", Fields{})
	if strings.Contains(buf.String(), "REDACTED") {
		t.Errorf("empty password should not be marked redacted: %s", buf.String())
	}
}

func TestStatus(t *testing.T) {
	if StatusEditing.String() != "editing" || StatusRegistered.String() != "registered" {
		t.Error("unexpected status names")
	}
	if Status(5).String() != "unknown" {
		t.Error("unexpected name for unknown status")
	}
	if StatusEditing.Terminal() || !StatusRegistered.Terminal() {
		t.Error("only registered is terminal")
	}
}
