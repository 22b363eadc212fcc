package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the mail relay settings. All fields are required;
// config validation refuses to start a mailer without them.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// SMTPNotifier delivers budget alerts by email.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Notify(ctx context.Context, a Alert) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", a.Recipient)
	msg.SetHeader("Subject", fmt.Sprintf("Budget Alert: You've exceeded your %s budget!", a.Category))
	msg.SetBody("text/html", alertBody(a))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.From, n.cfg.Password)

	// gomail has no context-aware send; honour cancellation before the
	// dial at least.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}

func alertBody(a Alert) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #e11d48;">Budget Alert</h2>
  <p>Hi %s,</p>
  <p>You have exceeded your budget for <strong>%s</strong>.</p>
  <div style="background: #f1f5f9; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Budget:</strong> %s %s</p>
    <p style="margin: 5px 0;"><strong>Total Spent:</strong> %s %s</p>
    <p style="margin: 5px 0; color: #e11d48;"><strong>Over by:</strong> %s %s</p>
  </div>
  <p>Log in to your dashboard to review your expenses.</p>
</div>`,
		a.Username, a.Category,
		a.Currency, a.Budget,
		a.Currency, a.Spent,
		a.Currency, a.Overrun())
}
