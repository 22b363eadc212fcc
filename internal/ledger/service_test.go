package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"khata/internal/alerts"
	"khata/internal/core"
	"khata/internal/ledger"
	"khata/internal/memstore"
	"khata/internal/notify"
)

type captureNotifier struct {
	calls []notify.Alert
}

func (c *captureNotifier) Notify(ctx context.Context, a notify.Alert) error {
	c.calls = append(c.calls, a)
	return nil
}

var ident = core.Identity{UserID: "u1", Email: "u1@example.com", Name: "Asha"}

func newTestService() (*ledger.Service, *memstore.Store, *captureNotifier) {
	store := memstore.New()
	n := &captureNotifier{}
	engine := alerts.NewEngine(store, store, n)
	return ledger.NewService(store, engine), store, n
}

func TestCreateTransactionDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type:     core.Income,
		Category: "Salary",
		Amount:   core.Money{Cents: 500000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.Currency != core.DefaultCurrency {
		t.Fatalf("currency default missing: %q", tx.Currency)
	}
	if tx.Date.IsZero() {
		t.Fatalf("date default missing")
	}
	if tx.UserID != ident.UserID {
		t.Fatalf("user = %q", tx.UserID)
	}
}

func TestCreateTransactionValidatesBeforeWrite(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type:     "transfer",
		Category: "Food",
		Amount:   core.Money{Cents: 100},
	})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if txs, _ := store.ListTransactions(ctx, ident.UserID, ledger.TransactionFilter{}); len(txs) != 0 {
		t.Fatalf("failed validation must not persist anything")
	}
}

func TestBudgetOverrunScenario(t *testing.T) {
	// The canonical flow: budget 100.00 for Food, then expenses 60.00
	// and 50.00 in the current month. The second creation totals
	// 110.00 and fires exactly one alert with spent=110, budget=100.
	svc, _, n := newTestService()
	ctx := context.Background()

	if _, err := svc.SetBudget(ctx, ident, "Food", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	// Mid-month date keeps the expenses inside the alert window no
	// matter which day the test runs on.
	now := time.Now()
	midMonth := time.Date(now.Year(), now.Month(), 10, 12, 0, 0, 0, now.Location())

	if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type: core.Expense, Category: "Food", Amount: core.Money{Cents: 6000}, Date: midMonth,
	}); err != nil {
		t.Fatalf("first expense: %v", err)
	}
	if len(n.calls) != 0 {
		t.Fatalf("60 of 100 must not alert")
	}

	if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type: core.Expense, Category: "Food", Amount: core.Money{Cents: 5000}, Date: midMonth,
	}); err != nil {
		t.Fatalf("second expense: %v", err)
	}
	if len(n.calls) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(n.calls))
	}
	a := n.calls[0]
	if a.Spent.Cents != 11000 || a.Budget.Cents != 10000 {
		t.Fatalf("alert amounts: spent %d, budget %d", a.Spent.Cents, a.Budget.Cents)
	}
	if a.Recipient != ident.Email || a.Username != ident.Name {
		t.Fatalf("alert recipient: %+v", a)
	}

	// No deduplication: a third over-budget expense alerts again.
	if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type: core.Expense, Category: "Food", Amount: core.Money{Cents: 100}, Date: midMonth,
	}); err != nil {
		t.Fatalf("third expense: %v", err)
	}
	if len(n.calls) != 2 {
		t.Fatalf("repeated overruns must keep alerting, got %d", len(n.calls))
	}
}

func TestDashboard(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
			Type: core.Expense, Category: "Food", Amount: core.Money{Cents: 1000},
		}); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}
	if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type: core.Income, Category: "Salary", Amount: core.Money{Cents: 100000},
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := svc.SetBudget(ctx, ident, "Food", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	d, err := svc.Dashboard(ctx, ident)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Totals.Income.Cents != 100000 || d.Totals.Expense.Cents != 7000 {
		t.Fatalf("totals: %+v", d.Totals)
	}
	if d.Totals.Balance.Cents != 93000 {
		t.Fatalf("balance: %d", d.Totals.Balance.Cents)
	}
	if len(d.Monthly) != 6 {
		t.Fatalf("rollup must always have 6 buckets, got %d", len(d.Monthly))
	}
	if len(d.Recent) != 5 {
		t.Fatalf("recent must cap at 5, got %d", len(d.Recent))
	}
	if d.Categories["Food"].Cents != 7000 {
		t.Fatalf("breakdown: %+v", d.Categories)
	}
	if len(d.Budgets) != 1 {
		t.Fatalf("budgets: %+v", d.Budgets)
	}
	// Dashboards are a separate view over the same ledger: another
	// user's dashboard is empty.
	other, err := svc.Dashboard(ctx, core.Identity{UserID: "u2"})
	if err != nil {
		t.Fatalf("other dashboard: %v", err)
	}
	if other.Totals.Income.Cents != 0 || len(other.Recent) != 0 {
		t.Fatalf("cross-user dashboard leak: %+v", other)
	}
}

func TestRetireCategory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateTransaction(ctx, ident, core.Transaction{
			Type: core.Expense, Category: "Shopping", Amount: core.Money{Cents: 100},
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := svc.RetireCategory(ctx, ident, "Shopping")
	if err != nil || n != 2 {
		t.Fatalf("retire: n=%d err=%v", n, err)
	}
	txs, _ := svc.ListTransactions(ctx, ident, ledger.TransactionFilter{Category: core.Uncategorized})
	if len(txs) != 2 {
		t.Fatalf("expected 2 uncategorized, got %d", len(txs))
	}

	if _, err := svc.RetireCategory(ctx, ident, "  "); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("blank category: %v", err)
	}
}

func TestUpdateTransactionPatchValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, ident, core.Transaction{
		Type: core.Expense, Category: "Food", Amount: core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	if _, err := svc.UpdateTransaction(ctx, ident, tx.ID, ledger.TransactionPatch{Category: &empty}); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("empty category patch: %v", err)
	}
	neg := core.Money{Cents: -1}
	if _, err := svc.UpdateTransaction(ctx, ident, tx.ID, ledger.TransactionPatch{Amount: &neg}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative amount patch: %v", err)
	}

	date := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	got, err := svc.UpdateTransaction(ctx, ident, tx.ID, ledger.TransactionPatch{Date: &date})
	if err != nil {
		t.Fatalf("date patch: %v", err)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %v", got.Date)
	}
}
