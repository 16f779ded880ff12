package sms

import (
	"context"
	"log/slog"
)

// Simulator is the dry-run dispatcher: it logs what would be sent and
// reports no provider SID. It never performs network I/O.
type Simulator struct{}

// NewSimulator creates a dry-run dispatcher.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Send logs the intent and succeeds without contacting any provider.
func (s *Simulator) Send(ctx context.Context, from, to, body string) (string, error) {
	slog.Info("dry run: would send sms",
		"from", from,
		"to", to,
		"body", body,
	)
	return "", nil
}

// DryRun always reports true for the simulator.
func (s *Simulator) DryRun() bool {
	return true
}

var _ Sender = (*Simulator)(nil)
