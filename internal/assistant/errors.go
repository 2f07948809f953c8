package assistant

import "errors"

var (
	// ErrTurnsFailed is returned at the end of a session in which at least
	// one model call, dictionary write or mesh run failed.
	ErrTurnsFailed = errors.New("one or more steps failed during the session")

	// ErrInputClosed is returned when input ends before every required
	// dictionary has been written.
	ErrInputClosed = errors.New("input closed before all required files were written")
)
