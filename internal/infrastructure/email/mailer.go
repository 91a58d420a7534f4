// Package email provides the outbound mail channel. The default
// implementation writes messages to the structured log, which is sufficient
// for development and staging; a real SMTP or provider-backed mailer slots in
// behind the same interface.
package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer records every message in the log instead of sending it.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Deliver(_ context.Context, address, subject, body string) error {
	m.log.Info().
		Str("to", address).
		Str("subject", subject).
		Str("body", body).
		Msg("email simulé")
	return nil
}
