// Package mailer delivers password-reset codes. The log mailer stands in
// for a real provider in development and tests.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes the reset code to the log instead of sending mail.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{log: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, code string) error {
	m.log.Info("password reset requested",
		zap.String("email", email),
		zap.String("resetCode", code))
	return nil
}
