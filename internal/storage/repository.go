// Package storage is the SQLite-backed ledger.Store. Every statement
// filters by user_id together with the record id, so a guessed id
// never exposes or mutates another user's records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"khata/internal/core"
	"khata/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, category, amount_cents, currency, description, receipt_url, date_unix)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		string(tx.UserID), string(tx.Type), tx.Category, tx.Amount.Cents,
		tx.Currency, tx.Description, tx.ReceiptURL, tx.Date.Unix(),
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return nil
}

const transactionColumns = `id, user_id, type, category, amount_cents, currency, description, receipt_url, date_unix`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx       core.Transaction
		userID   string
		txType   string
		dateUnix int64
	)
	err := row.Scan(&tx.ID, &userID, &txType, &tx.Category, &tx.Amount.Cents,
		&tx.Currency, &tx.Description, &tx.ReceiptURL, &dateUnix)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.UserID = core.UserID(userID)
	tx.Type = core.TransactionType(txType)
	tx.Date = time.Unix(dateUnix, 0).UTC()
	return tx, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, user core.UserID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id, string(user))
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction reads the current row, applies the patch, and
// writes it back in a single UPDATE scoped to (id, user_id).
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, user core.UserID, id int64, patch ledger.TransactionPatch) (core.Transaction, error) {
	tx, err := r.GetTransaction(ctx, user, id)
	if err != nil {
		return core.Transaction{}, err
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

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, category = ?, amount_cents = ?, currency = ?, description = ?, receipt_url = ?, date_unix = ?
		WHERE id = ? AND user_id = ?`,
		string(tx.Type), tx.Category, tx.Amount.Cents, tx.Currency,
		tx.Description, tx.ReceiptURL, tx.Date.Unix(),
		id, string(user))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, user core.UserID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`,
		id, string(user))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, user core.UserID, f ledger.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{string(user)}

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if !f.From.IsZero() {
		query += ` AND date_unix >= ?`
		args = append(args, f.From.Unix())
	}
	if !f.To.IsZero() {
		query += ` AND date_unix < ?`
		args = append(args, f.To.Unix())
	}
	query += ` ORDER BY date_unix DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) BulkRecategorize(ctx context.Context, user core.UserID, oldCategory, newCategory string) (int64, error) {
	if strings.TrimSpace(newCategory) == "" {
		newCategory = core.Uncategorized
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE user_id = ? AND category = ?`,
		newCategory, string(user), oldCategory)
	if err != nil {
		return 0, fmt.Errorf("bulk recategorize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk recategorize rows affected: %w", err)
	}
	slog.InfoContext(ctx, "Transactions recategorized",
		"user_id", user,
		"old_category", oldCategory,
		"new_category", newCategory,
		"count", n)
	return n, nil
}

func (r *SQLiteRepository) SumExpenses(ctx context.Context, user core.UserID, category string, from, to time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = ? AND category = ? AND type = 'expense'
		  AND date_unix >= ? AND date_unix < ?`,
		string(user), category, from.Unix(), to.Unix(),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// UpsertBudget converges to the latest amount for (user, category) in
// one statement; uniqueness never surfaces as a constraint error.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, user core.UserID, category string, amount core.Money) (core.Budget, error) {
	b := core.Budget{UserID: user, Category: category, Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category, amount_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		string(user), category, amount.Cents,
	).Scan(&b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"budget_id", b.ID,
		"user_id", user,
		"category", category,
		"amount_cents", amount.Cents)
	return b, nil
}

func (r *SQLiteRepository) FindBudget(ctx context.Context, user core.UserID, category string) (core.Budget, bool, error) {
	var (
		b      core.Budget
		userID string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? AND category = ?`,
		string(user), category,
	).Scan(&b.ID, &userID, &b.Category, &b.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, false, nil
	}
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("find budget: %w", err)
	}
	b.UserID = core.UserID(userID)
	return b, true, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, user core.UserID) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? ORDER BY id`,
		string(user))
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b      core.Budget
			userID string
		)
		if err := rows.Scan(&b.ID, &userID, &b.Category, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.UserID = core.UserID(userID)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// DeleteBudget is deliberately permissive: a missing or foreign id is
// not an error, matching the best-effort delete the callers expect.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, user core.UserID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`,
		id, string(user))
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
