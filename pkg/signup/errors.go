package signup

import "errors"

// ErrUnknownField is returned when an update names a field other than
// username, email or password.
var ErrUnknownField = errors.New("signup: unknown field")
