// Package sms abstracts outbound SMS dispatch. The live implementation
// talks to Twilio's message-send endpoint; the simulator logs intent and
// never touches the network.
package sms

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by the live dispatcher when any of the
// account SID, auth token, or sender number is missing. It is checked
// before any network I/O happens.
var ErrNotConfigured = errors.New("twilio not configured: set CALLCATCH_TWILIO_* or enable dry-run")

// DispatchError reports a non-2xx response from the SMS provider. The
// send is not retried.
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("twilio sms failed (%d): %s", e.StatusCode, e.Body)
}

// Sender dispatches a single outbound SMS. It returns the provider-assigned
// message SID, or "" when no provider was contacted.
type Sender interface {
	Send(ctx context.Context, from, to, body string) (sid string, err error)

	// DryRun reports whether this sender only simulates dispatch.
	DryRun() bool
}
