// Package alerts holds the budget-threshold decision. The engine is
// stateless: each qualifying write triggers one synchronous evaluation
// pass, with no debounce or cooldown between passes.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"khata/internal/core"
	"khata/internal/notify"
)

// BudgetReader looks up the budget for one (user, category) pair.
// Absence is not an error: no budget means the category is untracked.
type BudgetReader interface {
	FindBudget(ctx context.Context, user core.UserID, category string) (core.Budget, bool, error)
}

// SpendReader sums expense amounts for a (user, category) pair inside
// a half-open date window [from, to).
type SpendReader interface {
	SumExpenses(ctx context.Context, user core.UserID, category string, from, to time.Time) (core.Money, error)
}

type Engine struct {
	budgets  BudgetReader
	spend    SpendReader
	notifier notify.Notifier

	now func() time.Time
}

func NewEngine(budgets BudgetReader, spend SpendReader, notifier notify.Notifier) *Engine {
	return &Engine{
		budgets:  budgets,
		spend:    spend,
		notifier: notifier,
		now:      time.Now,
	}
}

// Evaluate runs one alert pass for a freshly persisted transaction.
// It never returns an error: alerting is best-effort and must not
// affect the transaction creation that triggered it.
func (e *Engine) Evaluate(ctx context.Context, ident core.Identity, tx core.Transaction) {
	if tx.Type != core.Expense {
		return
	}

	budget, ok, err := e.budgets.FindBudget(ctx, ident.UserID, tx.Category)
	if err != nil {
		slog.ErrorContext(ctx, "Budget lookup failed, skipping alert evaluation",
			"user_id", ident.UserID, "category", tx.Category, "error", err)
		return
	}
	if !ok {
		return
	}

	from, to := monthWindow(e.now())
	spent, err := e.spend.SumExpenses(ctx, ident.UserID, tx.Category, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "Month spend lookup failed, skipping alert evaluation",
			"user_id", ident.UserID, "category", tx.Category, "error", err)
		return
	}

	// Strictly greater: spending exactly the budget is not an overrun.
	if spent.Cents <= budget.Amount.Cents {
		return
	}

	alert := notify.Alert{
		Recipient: ident.Email,
		Username:  ident.Name,
		Category:  tx.Category,
		Spent:     spent,
		Budget:    budget.Amount,
		Currency:  tx.Currency,
	}
	if err := e.notifier.Notify(ctx, alert); err != nil {
		// Swallowed: delivery failure never reaches the caller.
		slog.ErrorContext(ctx, "Budget alert delivery failed",
			"user_id", ident.UserID,
			"category", tx.Category,
			"spent_cents", spent.Cents,
			"budget_cents", budget.Amount.Cents,
			"error", err)
		return
	}

	slog.InfoContext(ctx, "Budget alert sent",
		"user_id", ident.UserID,
		"category", tx.Category,
		"spent_cents", spent.Cents,
		"budget_cents", budget.Amount.Cents)
}

// monthWindow returns the current-month evaluation window. The lower
// bound is the 1st at midnight, inclusive. The upper bound is "day 0
// of next month" (the last calendar day of the month at midnight) and
// is applied as a strict less-than, so transactions dated on the final
// day fall outside the window. Callers compare against this exact
// boundary; widening it to the full month changes which writes can
// fire an alert.
func monthWindow(now time.Time) (from, to time.Time) {
	y, m := now.Year(), now.Month()
	from = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	to = time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location())
	return from, to
}
