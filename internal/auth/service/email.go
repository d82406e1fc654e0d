package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/authservice/pkg/slogx"
)

// EmailClient delivers messages to users, for now only 2FA codes.
type EmailClient interface {
	SendEmail(ctx context.Context, recipient, subject, content string) error
}

// LogEmailClient writes emails to the request logger instead of sending them.
// Only suitable for development.
type LogEmailClient struct{}

func (LogEmailClient) SendEmail(ctx context.Context, recipient, subject, content string) error {
	slogx.FromContext(ctx).Info("email sent",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("content", content),
	)
	return nil
}
