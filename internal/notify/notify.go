// Package notify is the outbound port for budget-overrun alerts. The
// alert engine decides whether and with what values to notify; how the
// message reaches the user is this package's concern alone.
package notify

import (
	"context"

	"khata/internal/core"
)

// Alert carries everything a delivery channel needs to tell a user
// they are over budget.
type Alert struct {
	Recipient string
	Username  string
	Category  string
	Spent     core.Money
	Budget    core.Money
	Currency  string
}

// Overrun is the amount by which the budget was exceeded.
func (a Alert) Overrun() core.Money {
	return core.Money{Cents: a.Spent.Cents - a.Budget.Cents}
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}
