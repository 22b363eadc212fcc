package analytics

import (
	"testing"
	"time"

	"khata/internal/core"
)

func tx(id int64, typ core.TransactionType, category string, cents int64, date time.Time) core.Transaction {
	return core.Transaction{
		ID:       id,
		UserID:   "u1",
		Type:     typ,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Currency: core.DefaultCurrency,
		Date:     date,
	}
}

func TestComputeTotals(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		tx(1, core.Income, "Salary", 500000, now),
		tx(2, core.Income, "Salary", 123456, now),
		tx(3, core.Expense, "Food", 6000, now),
		tx(4, core.Expense, "Rent", 150000, now),
	}
	got := ComputeTotals(txs)
	if got.Income.Cents != 623456 {
		t.Fatalf("income = %d", got.Income.Cents)
	}
	if got.Expense.Cents != 156000 {
		t.Fatalf("expense = %d", got.Expense.Cents)
	}
	if got.Balance.Cents != got.Income.Cents-got.Expense.Cents {
		t.Fatalf("balance %d != income - expense", got.Balance.Cents)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	if got.Income.Cents != 0 || got.Expense.Cents != 0 || got.Balance.Cents != 0 {
		t.Fatalf("expected all zero, got %+v", got)
	}
}

func TestMonthlyRollupAlwaysSixBuckets(t *testing.T) {
	ref := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	// Only months 1, 3, 5 of the window are populated (Jan, Mar, May).
	txs := []core.Transaction{
		tx(1, core.Income, "Salary", 100000, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		tx(2, core.Expense, "Food", 25000, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)),
		tx(3, core.Income, "Salary", 100000, time.Date(2026, time.May, 28, 0, 0, 0, 0, time.UTC)),
		// Outside the window entirely.
		tx(4, core.Expense, "Food", 9900, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)),
	}
	buckets := MonthlyRollup(txs, ref, 6)
	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	labels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	for i, b := range buckets {
		if b.Label != labels[i] {
			t.Fatalf("bucket %d label = %q, want %q", i, b.Label, labels[i])
		}
	}
	if buckets[0].Income != 1000 || buckets[0].Expense != 0 {
		t.Fatalf("Jan bucket = %+v", buckets[0])
	}
	if buckets[1].Income != 0 || buckets[1].Expense != 0 {
		t.Fatalf("empty Feb bucket should be zero, got %+v", buckets[1])
	}
	if buckets[2].Expense != 250 {
		t.Fatalf("Mar expense = %d", buckets[2].Expense)
	}
	if buckets[3].Income != 0 || buckets[3].Expense != 0 {
		t.Fatalf("empty Apr bucket should be zero, got %+v", buckets[3])
	}
	if buckets[4].Income != 1000 {
		t.Fatalf("May income = %d", buckets[4].Income)
	}
	if buckets[5].Income != 0 || buckets[5].Expense != 0 {
		t.Fatalf("empty Jun bucket should be zero, got %+v", buckets[5])
	}
}

func TestMonthlyRollupCrossesYearBoundary(t *testing.T) {
	ref := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(1, core.Expense, "Food", 10050, time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)),
	}
	buckets := MonthlyRollup(txs, ref, 6)
	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "Sep" {
		t.Fatalf("oldest bucket label = %q, want Sep", buckets[0].Label)
	}
	// 10050 cents rounds to 101 whole units, half away from zero.
	if buckets[0].Expense != 101 {
		t.Fatalf("Sep expense = %d, want 101", buckets[0].Expense)
	}
	if buckets[5].Label != "Feb" {
		t.Fatalf("newest bucket label = %q, want Feb", buckets[5].Label)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		tx(1, core.Expense, "Food", 6000, now),
		tx(2, core.Expense, "Food", 5000, now),
		tx(3, core.Expense, "Travel", 12345, now),
		tx(4, core.Income, "Salary", 500000, now), // income is excluded
	}
	got := CategoryBreakdown(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got["Food"].Cents != 11000 {
		t.Fatalf("Food = %d", got["Food"].Cents)
	}
	if got["Travel"].Cents != 12345 {
		t.Fatalf("Travel = %d", got["Travel"].Cents)
	}
	if _, ok := got["Salary"]; ok {
		t.Fatalf("income category must not appear in the breakdown")
	}
}

func TestRecentTransactions(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	var txs []core.Transaction
	for i := int64(1); i <= 7; i++ {
		txs = append(txs, tx(i, core.Expense, "Food", 100, base.AddDate(0, 0, int(i))))
	}
	got := RecentTransactions(txs, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5, got %d", len(got))
	}
	if got[0].ID != 7 || got[4].ID != 3 {
		t.Fatalf("expected ids 7..3 newest first, got %d..%d", got[0].ID, got[4].ID)
	}

	// Ties on date break by id, newest id first.
	same := []core.Transaction{
		tx(1, core.Expense, "Food", 100, base),
		tx(2, core.Expense, "Food", 100, base),
	}
	got = RecentTransactions(same, 2)
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("tie break by id: got %d, %d", got[0].ID, got[1].ID)
	}

	if n := len(RecentTransactions(same, 10)); n != 2 {
		t.Fatalf("n beyond data should clamp, got %d", n)
	}
}
