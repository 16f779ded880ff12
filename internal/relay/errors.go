package relay

import "errors"

// ErrNumberNotRegistered is returned when a missed call targets a number
// the tenant has not registered. The call event is still recorded.
var ErrNumberNotRegistered = errors.New("number not registered")

// ValidationError reports malformed call-event input. It is detected
// before any record is written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
