package session

// ErrStoreClosed is returned when operations are attempted on a closed registry.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "session registry is closed"
}
