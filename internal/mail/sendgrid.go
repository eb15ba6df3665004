// Package mail delivers share notifications through SendGrid.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"drivebox/internal/domain/services"
)

// SendGridNotifier implements services.Notifier using the SendGrid v3 API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *slog.Logger
}

var (
	_ services.Notifier = (*SendGridNotifier)(nil)
	_ services.Notifier = NopNotifier{}
)

// NewSendGridNotifier creates a notifier sending from the given address.
func NewSendGridNotifier(apiKey, fromAddress string, logger *slog.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("", fromAddress),
		logger: logger,
	}
}

// Notify sends a plain-text mail. Callers treat delivery as best-effort;
// this method still reports errors so they can be logged.
func (n *SendGridNotifier) Notify(ctx context.Context, email, subject, body string) error {
	to := sgmail.NewEmail("", email)
	message := sgmail.NewSingleEmail(n.from, subject, to, body, body)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", email, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send mail to %s: sendgrid returned %d", email, resp.StatusCode)
	}

	n.logger.Debug("notification sent", "to", email, "subject", subject)

	return nil
}

// NopNotifier discards notifications; used when no SendGrid key is
// configured (local development).
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, email, subject, body string) error {
	return nil
}
