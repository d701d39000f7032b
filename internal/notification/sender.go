// Package notification delivers security alerts raised by the audit trail.
package notification

import (
	"context"
	"log/slog"
	"strings"
)

// Sender delivers a single alert to the given recipients.
type Sender interface {
	// Send delivers the alert. Implementations must honor ctx cancellation.
	Send(ctx context.Context, subject, body string, recipients []string) error
}

// logSender writes alerts to the structured log. It is the default sender
// when no external channel is configured.
type logSender struct {
	logger *slog.Logger
}

// Send logs the alert at warn level.
func (s *logSender) Send(ctx context.Context, subject, body string, recipients []string) error {
	s.logger.WarnContext(ctx, "security alert",
		slog.String("subject", subject),
		slog.String("body", body),
		slog.String("recipients", strings.Join(recipients, ",")),
	)
	return nil
}

// NewLogSender creates a sender that writes alerts to the structured log.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}
