package signup

// Status is the state of a form session.
//
// The only transition is StatusEditing → StatusRegistered; no operation
// moves a session back.
type Status uint8

const (
	StatusEditing Status = iota
	StatusRegistered
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusRegistered
}
