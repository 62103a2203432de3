package email

import (
	"context"
	"log/slog"

	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// MockSMTPNotifier is a secondary adapter that mocks sending emails.
// It implements the ports.Notifier interface.
type MockSMTPNotifier struct {
	logger *slog.Logger
}

// NewMockSMTPNotifier creates a new mock notifier.
func NewMockSMTPNotifier(logger *slog.Logger) ports.Notifier {
	return &MockSMTPNotifier{
		logger: logger.With("component", "email_notifier"),
	}
}

// Notify logs the notification to the console instead of sending an email.
// Callers run this off the request path with their own background context.
func (n *MockSMTPNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	n.logger.Info("mock email sent",
		"to_name", params.RecipientName,
		"to_email", params.RecipientEmail,
		"subject", params.Subject,
		"body", params.Message,
	)
}
