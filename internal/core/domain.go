package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Uncategorized is the reserved category that transactions are moved to
// when their original category is retired. It is a plain string value,
// not an enum member.
const Uncategorized = "Uncategorized"

// DefaultCurrency applies when a transaction is created without one.
const DefaultCurrency = "INR"

type (
	TransactionType string

	// UserID identifies the owning user. It is issued by the external
	// identity provider and threaded explicitly through every operation;
	// the core never reads it from ambient state.
	UserID string

	// Identity is the already-authenticated caller, resolved by the
	// gateway in front of this service.
	Identity struct {
		UserID UserID
		Email  string
		Name   string
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      UserID          `json:"user_id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      Money           `json:"amount"`
		Currency    string          `json:"currency"`
		Description string          `json:"description,omitempty"`
		ReceiptURL  string          `json:"receipt_url,omitempty"`
		Date        time.Time       `json:"date"`
	}

	Budget struct {
		ID       int64  `json:"id"`
		UserID   UserID `json:"user_id"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
	}
)

var (
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")

	// ErrNotFound covers both a missing record and one owned by a
	// different user, so callers cannot probe for foreign ids.
	ErrNotFound = errors.New("not found")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// IsValidation reports whether err is one of the input-validation
// sentinels, as opposed to a store or delivery failure.
func IsValidation(err error) bool {
	for _, v := range []error{ErrInvalidType, ErrEmptyCategory, ErrInvalidAmount, ErrInvalidCurrency} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := validateCurrency(tx.Currency); err != nil {
		return err
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return b.Amount.Validate()
}

func validateCurrency(code string) error {
	if len(code) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}
