// Package analytics derives dashboard views from a user's transaction
// set. Everything here is a pure function over an in-memory slice; the
// snapshots are never persisted.
package analytics

import (
	"sort"
	"time"

	"khata/internal/core"
)

type Totals struct {
	Income  core.Money `json:"total_income"`
	Expense core.Money `json:"total_expense"`
	Balance core.Money `json:"balance"`
}

// MonthBucket is one calendar month of the rollup. Income and Expense
// are whole-unit sums, rounded half away from zero.
type MonthBucket struct {
	Label   string `json:"name"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// ComputeTotals sums income and expense in exact cents; the balance is
// their difference, so total_income - total_expense == balance always
// holds exactly.
func ComputeTotals(txs []core.Transaction) Totals {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income += tx.Amount.Cents
		case core.Expense:
			expense += tx.Amount.Cents
		}
	}
	return Totals{
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
		Balance: core.Money{Cents: income - expense},
	}
}

// MonthlyRollup buckets transactions per calendar month, oldest first,
// ending at ref's month. The result always has exactly monthsBack
// entries; months without transactions report zero.
func MonthlyRollup(txs []core.Transaction, ref time.Time, monthsBack int) []MonthBucket {
	buckets := make([]MonthBucket, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		m := time.Date(ref.Year(), ref.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		var income, expense int64
		for _, tx := range txs {
			// Calendar year+month match, not a fixed day-count window.
			if tx.Date.Year() != m.Year() || tx.Date.Month() != m.Month() {
				continue
			}
			switch tx.Type {
			case core.Income:
				income += tx.Amount.Cents
			case core.Expense:
				expense += tx.Amount.Cents
			}
		}
		buckets = append(buckets, MonthBucket{
			Label:   m.Month().String()[:3],
			Income:  core.Money{Cents: income}.WholeUnits(),
			Expense: core.Money{Cents: expense}.WholeUnits(),
		})
	}
	return buckets
}

// CategoryBreakdown sums expense amounts per category. Income
// transactions are ignored. One entry per distinct category present.
func CategoryBreakdown(txs []core.Transaction) map[string]core.Money {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	out := make(map[string]core.Money, len(sums))
	for cat, cents := range sums {
		out[cat] = core.Money{Cents: cents}
	}
	return out
}

// RecentTransactions returns the n most recently dated transactions,
// newest first. Date ties break by id, newest id first, so the order
// is consistent across calls.
func RecentTransactions(txs []core.Transaction, n int) []core.Transaction {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
