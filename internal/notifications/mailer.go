// Package notifications delivers forum email: mention alerts, reply
// alerts and moderation status notices. Delivery is best-effort; a
// failed send never fails the operation that triggered it.
package notifications

import (
	"context"
	"log/slog"

	"studydeck/internal/middleware"
)

// Mailer is the outbound mail collaborator. Implementations must treat
// recipients as a plain list; deduplication happens upstream.
type Mailer interface {
	Send(ctx context.Context, subject, body string, recipients []string) error
}

// LogMailer writes outbound mail to the structured log instead of an
// SMTP relay. It is the default in development and test environments.
type LogMailer struct {
	from string
}

// NewLogMailer creates a LogMailer with the given sender address.
func NewLogMailer(from string) *LogMailer {
	return &LogMailer{from: from}
}

// Send logs the message and always succeeds.
func (m *LogMailer) Send(ctx context.Context, subject, body string, recipients []string) error {
	middleware.Logger.InfoContext(ctx, "outbound mail",
		slog.String("from", m.from),
		slog.String("subject", subject),
		slog.Int("recipients", len(recipients)),
	)
	return nil
}
