package domain

import "context"

// Mailer defines the interface for outbound email notifications.
// Sending is fire-and-forget from the caller's perspective: a failure is
// surfaced as an error but never retried or queued here.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
