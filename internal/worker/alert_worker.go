package worker

import (
	"context"
	"fmt"
	"log/slog"

	"khata/internal/amqp"
	"khata/internal/notify"
)

// AlertWorker delivers queued budget alerts over email. It is the
// consumer side of the alert queue: the API publishes, this sends.
type AlertWorker struct {
	mailer notify.Notifier
}

func NewAlertWorker(mailer notify.Notifier) *AlertWorker {
	return &AlertWorker{mailer: mailer}
}

// HandleAlertMessage processes a single budget alert message from AMQP.
// A returned error causes the delivery to be nacked and requeued, so
// transient SMTP failures retry.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	alert := msg.Alert()

	slog.InfoContext(ctx, "Delivering budget alert",
		"recipient", alert.Recipient,
		"category", alert.Category,
		"spent_cents", alert.Spent.Cents,
		"budget_cents", alert.Budget.Cents)

	if err := w.mailer.Notify(ctx, alert); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	slog.InfoContext(ctx, "Budget alert delivered",
		"recipient", alert.Recipient,
		"category", alert.Category)

	return nil
}
