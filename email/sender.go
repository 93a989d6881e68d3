// Package email handles outbound mail for subscriber notifications.
package email

import (
	"context"
	"log/slog"
)

// Message represents an email to be sent
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender abstracts the mail provider so business logic and tests don't
// depend on a live SMTP connection.
type Sender interface {
	// Send delivers a single message
	Send(ctx context.Context, msg Message) error
}

// LogSender logs messages instead of delivering them. Used when no SMTP
// transport is configured (local development).
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("email sending disabled, message logged only",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}
