// Package memstore is an in-memory ledger.Store. It backs tests and
// the DATA_BACKEND=memory mode; the SQLite repository is the durable
// implementation.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"khata/internal/core"
	"khata/internal/ledger"
)

type Store struct {
	mu           sync.RWMutex
	transactions map[int64]core.Transaction
	budgets      map[int64]core.Budget
	nextTxID     int64
	nextBudgetID int64
}

func New() *Store {
	return &Store{
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
		nextTxID:     1,
		nextBudgetID: 1,
	}
}

func (s *Store) CreateTransaction(_ context.Context, tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextTxID
	s.nextTxID++
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) GetTransaction(_ context.Context, user core.UserID, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok || tx.UserID != user {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, user core.UserID, id int64, patch ledger.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || tx.UserID != user {
		return core.Transaction{}, core.ErrNotFound
	}
	if patch.Type != nil {
		tx.Type = *patch.Type
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		tx.Currency = *patch.Currency
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if patch.ReceiptURL != nil {
		tx.ReceiptURL = *patch.ReceiptURL
	}
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.transactions[id] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, user core.UserID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || tx.UserID != user {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, user core.UserID, f ledger.TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != user {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if !f.From.IsZero() && tx.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !tx.Date.Before(f.To) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) BulkRecategorize(_ context.Context, user core.UserID, oldCategory, newCategory string) (int64, error) {
	if strings.TrimSpace(newCategory) == "" {
		newCategory = core.Uncategorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, tx := range s.transactions {
		if tx.UserID != user || tx.Category != oldCategory {
			continue
		}
		tx.Category = newCategory
		s.transactions[id] = tx
		n++
	}
	return n, nil
}

func (s *Store) SumExpenses(_ context.Context, user core.UserID, category string, from, to time.Time) (core.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cents int64
	for _, tx := range s.transactions {
		if tx.UserID != user || tx.Type != core.Expense || tx.Category != category {
			continue
		}
		if tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}
		cents += tx.Amount.Cents
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) UpsertBudget(_ context.Context, user core.UserID, category string, amount core.Money) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range s.budgets {
		if b.UserID == user && b.Category == category {
			b.Amount = amount
			s.budgets[id] = b
			return b, nil
		}
	}
	b := core.Budget{ID: s.nextBudgetID, UserID: user, Category: category, Amount: amount}
	s.nextBudgetID++
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) FindBudget(_ context.Context, user core.UserID, category string) (core.Budget, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.UserID == user && b.Category == category {
			return b, true, nil
		}
	}
	return core.Budget{}, false, nil
}

func (s *Store) ListBudgets(_ context.Context, user core.UserID) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.UserID == user {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteBudget silently succeeds when the budget is missing or owned
// by another user.
func (s *Store) DeleteBudget(_ context.Context, user core.UserID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.budgets[id]; ok && b.UserID == user {
		delete(s.budgets, id)
	}
	return nil
}

func (s *Store) Close() error { return nil }
