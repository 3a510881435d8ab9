package local

import (
	"context"
	"log/slog"
)

// Mailer delivers password-reset tokens to account owners.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer "delivers" reset tokens by logging them. Suitable for local
// development only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Password reset token issued", "email", email, "token", token)
	return nil
}
