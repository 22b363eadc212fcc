// Package ledger orchestrates the transaction and budget stores and
// runs the post-commit alert pass for new expenses.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"khata/internal/alerts"
	"khata/internal/analytics"
	"khata/internal/core"
)

type Service struct {
	store  Store
	alerts *alerts.Engine

	now func() time.Time
}

func NewService(store Store, alertEngine *alerts.Engine) *Service {
	return &Service{
		store:  store,
		alerts: alertEngine,
		now:    time.Now,
	}
}

// CreateTransaction validates, applies defaults, persists, and then
// runs the budget alert pass for expenses. The alert pass is strictly
// best-effort: by the time it runs the transaction is committed, and
// nothing it does can fail the create.
func (s *Service) CreateTransaction(ctx context.Context, ident core.Identity, tx core.Transaction) (core.Transaction, error) {
	tx.UserID = ident.UserID
	tx.Category = strings.TrimSpace(tx.Category)
	if tx.Currency == "" {
		tx.Currency = core.DefaultCurrency
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"user_id", tx.UserID,
		"transaction_id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	if tx.Type == core.Expense && s.alerts != nil {
		s.alerts.Evaluate(ctx, ident, tx)
	}

	return tx, nil
}

func (s *Service) GetTransaction(ctx context.Context, ident core.Identity, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, ident.UserID, id)
}

// UpdateTransaction changes only the supplied fields. The amount, when
// present, has already been re-rounded by the boundary parser.
func (s *Service) UpdateTransaction(ctx context.Context, ident core.Identity, id int64, patch TransactionPatch) (core.Transaction, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return core.Transaction{}, core.ErrInvalidType
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	if patch.Amount != nil {
		if err := patch.Amount.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}
	return s.store.UpdateTransaction(ctx, ident.UserID, id, patch)
}

func (s *Service) DeleteTransaction(ctx context.Context, ident core.Identity, id int64) error {
	return s.store.DeleteTransaction(ctx, ident.UserID, id)
}

func (s *Service) ListTransactions(ctx context.Context, ident core.Identity, f TransactionFilter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, ident.UserID, f)
}

// RetireCategory moves every transaction in the named category to the
// reserved "Uncategorized" value. Amounts and dates are untouched.
func (s *Service) RetireCategory(ctx context.Context, ident core.Identity, category string) (int64, error) {
	if strings.TrimSpace(category) == "" {
		return 0, core.ErrEmptyCategory
	}
	n, err := s.store.BulkRecategorize(ctx, ident.UserID, category, core.Uncategorized)
	if err != nil {
		return 0, fmt.Errorf("retire category %q: %w", category, err)
	}
	slog.InfoContext(ctx, "Category retired",
		"user_id", ident.UserID, "category", category, "transactions_moved", n)
	return n, nil
}

// SetBudget upserts the monthly limit for a category. Repeated calls
// converge to the latest amount; there is never more than one budget
// per (user, category).
func (s *Service) SetBudget(ctx context.Context, ident core.Identity, category string, amount core.Money) (core.Budget, error) {
	b := core.Budget{UserID: ident.UserID, Category: strings.TrimSpace(category), Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.store.UpsertBudget(ctx, ident.UserID, b.Category, amount)
}

func (s *Service) ListBudgets(ctx context.Context, ident core.Identity) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, ident.UserID)
}

// DeleteBudget is best-effort: deleting a missing or foreign budget
// silently succeeds.
func (s *Service) DeleteBudget(ctx context.Context, ident core.Identity, id int64) error {
	return s.store.DeleteBudget(ctx, ident.UserID, id)
}

// Dashboard is the derived read-only snapshot served to the UI.
type Dashboard struct {
	Totals     analytics.Totals        `json:"totals"`
	Monthly    []analytics.MonthBucket `json:"monthly"`
	Categories map[string]core.Money   `json:"categories"`
	Recent     []core.Transaction      `json:"recent"`
	Budgets    []core.Budget           `json:"budgets"`
}

const (
	rollupMonths = 6
	recentCount  = 5
)

// Dashboard loads the user's full transaction set once and derives
// every view from that single snapshot.
func (s *Service) Dashboard(ctx context.Context, ident core.Identity) (Dashboard, error) {
	txs, err := s.store.ListTransactions(ctx, ident.UserID, TransactionFilter{})
	if err != nil {
		return Dashboard{}, fmt.Errorf("load transactions: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx, ident.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load budgets: %w", err)
	}

	return Dashboard{
		Totals:     analytics.ComputeTotals(txs),
		Monthly:    analytics.MonthlyRollup(txs, s.now(), rollupMonths),
		Categories: analytics.CategoryBreakdown(txs),
		Recent:     analytics.RecentTransactions(txs, recentCount),
		Budgets:    budgets,
	}, nil
}
