package notify

import (
	"context"
	"log/slog"
)

// LogNotifier only logs the alert. Used when no mail relay is
// configured, so development setups never crash on delivery.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, a Alert) error {
	slog.InfoContext(ctx, "Budget alert (log only)",
		"recipient", a.Recipient,
		"username", a.Username,
		"category", a.Category,
		"spent", a.Spent.String(),
		"budget", a.Budget.String(),
		"currency", a.Currency)
	return nil
}
