package services

import "context"

// Notifier delivers share notifications. Delivery is best-effort from the
// core's perspective: callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, email, subject, body string) error
}
