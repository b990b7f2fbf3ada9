package signup

import (
	"fmt"
	"log/slog"
)

// Field identifies one of the tracked form fields.
type Field uint8

const (
	FieldUsername Field = iota
	FieldEmail
	FieldPassword
)

// AllFields lists the form fields in display order.
var AllFields = []Field{FieldUsername, FieldEmail, FieldPassword}

// String returns the field's form name.
func (f Field) String() string {
	switch f {
	case FieldUsername:
		return "username"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	default:
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
}

// Label returns the human-readable label shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldEmail:
		return "Email"
	case FieldPassword:
		return "Password"
	default:
		return f.String()
	}
}

// InputType returns the HTML input type used for the field. Only the
// password is masked; no type adds a format check of its own.
func (f Field) InputType() string {
	switch f {
	case FieldPassword:
		return "password"
	default:
		return "text"
	}
}

// ParseField maps a form name to a Field. Matching is exact.
func ParseField(name string) (Field, error) {
	switch name {
	case "username":
		return FieldUsername, nil
	case "email":
		return FieldEmail, nil
	case "password":
		return FieldPassword, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
}

// Fields is the record of the three form values.
// It is a value type: updates produce a new record.
type Fields struct {
	Username string
	Email    string
	Password string
}

// Get returns the value of one field.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldUsername:
		return f.Username
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	default:
		return ""
	}
}

// With returns a copy of f with one field replaced.
// An out-of-range field returns f unchanged.
func (f Fields) With(field Field, value string) Fields {
	switch field {
	case FieldUsername:
		f.Username = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	}
	return f
}

// LogValue implements slog.LogValuer. The password is never logged;
// only whether one was entered.
func (f Fields) LogValue() slog.Value {
	password := ""
	if f.Password != "" {
		password = "[REDACTED]"
	}
	return slog.GroupValue(
		slog.String("username", f.Username),
		slog.String("email", f.Email),
		slog.String("password", password),
	)
}
