package core

import (
	"testing"
	"time"
)

func TestTransactionTypeValid(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Fatalf("income and expense must be valid types")
	}
	if TransactionType("transfer").Valid() {
		t.Fatalf("unknown type must be invalid")
	}
	if TransactionType("").Valid() {
		t.Fatalf("empty type must be invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Category: "Food",
		Amount:   Money{Cents: 100},
		Currency: "INR",
		Date:     time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Category: "Food", Amount: Money{Cents: 1}, Currency: "INR"},
		{Type: Expense, Category: "", Amount: Money{Cents: 1}, Currency: "INR"},
		{Type: Expense, Category: "  ", Amount: Money{Cents: 1}, Currency: "INR"},
		{Type: Expense, Category: "Food", Amount: Money{Cents: -1}, Currency: "INR"},
		{Type: Expense, Category: "Food", Amount: Money{Cents: 1}, Currency: "rupees"},
		{Type: Expense, Category: "Food", Amount: Money{Cents: 1}, Currency: "inr"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	// Zero amount is allowed: the ledger stores non-negative amounts.
	zero := good
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Category: "Food", Amount: Money{Cents: 10000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "", Amount: Money{Cents: 1}}).Validate(); err == nil {
		t.Fatalf("expected error for empty category")
	}
	if err := (Budget{Category: "Food", Amount: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrInvalidType, ErrEmptyCategory, ErrInvalidAmount, ErrInvalidCurrency} {
		if !IsValidation(err) {
			t.Fatalf("%v should be a validation error", err)
		}
	}
	if IsValidation(ErrNotFound) {
		t.Fatalf("ErrNotFound is not a validation error")
	}
}
