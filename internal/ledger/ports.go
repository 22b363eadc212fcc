package ledger

import (
	"context"
	"time"

	"khata/internal/core"
)

// TransactionPatch is a partial update: only non-nil fields change.
type TransactionPatch struct {
	Type        *core.TransactionType
	Category    *string
	Amount      *core.Money
	Currency    *string
	Description *string
	ReceiptURL  *string
	Date        *time.Time
}

// TransactionFilter narrows a user's transaction listing. Zero values
// mean "no constraint". The To bound is exclusive.
type TransactionFilter struct {
	Category string
	Type     core.TransactionType
	From     time.Time
	To       time.Time
}

// Store is the durable, user-scoped ledger. Every method takes the
// owning user explicitly; implementations must filter by (id, user)
// and never by id alone.
type Store interface {
	CreateTransaction(ctx context.Context, tx *core.Transaction) error
	GetTransaction(ctx context.Context, user core.UserID, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, user core.UserID, id int64, patch TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, user core.UserID, id int64) error
	ListTransactions(ctx context.Context, user core.UserID, f TransactionFilter) ([]core.Transaction, error)
	BulkRecategorize(ctx context.Context, user core.UserID, oldCategory, newCategory string) (int64, error)
	SumExpenses(ctx context.Context, user core.UserID, category string, from, to time.Time) (core.Money, error)

	UpsertBudget(ctx context.Context, user core.UserID, category string, amount core.Money) (core.Budget, error)
	FindBudget(ctx context.Context, user core.UserID, category string) (core.Budget, bool, error)
	ListBudgets(ctx context.Context, user core.UserID) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, user core.UserID, id int64) error

	Close() error
}
