package amqp

import (
	"encoding/json"
	"time"

	"khata/internal/core"
	"khata/internal/notify"
)

// BudgetAlertMessage is the wire form of a budget overrun alert. It
// carries everything the delivery worker needs to send the email, so
// the worker never reads the ledger.
type BudgetAlertMessage struct {
	Recipient   string    `json:"recipient"`
	Username    string    `json:"username"`
	Category    string    `json:"category"`
	SpentCents  int64     `json:"spent_cents"`
	BudgetCents int64     `json:"budget_cents"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage converts a domain alert to its wire form.
func NewBudgetAlertMessage(a notify.Alert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Recipient:   a.Recipient,
		Username:    a.Username,
		Category:    a.Category,
		SpentCents:  a.Spent.Cents,
		BudgetCents: a.Budget.Cents,
		Currency:    a.Currency,
		Timestamp:   time.Now(),
	}
}

// Alert converts the wire form back to the domain alert.
func (m *BudgetAlertMessage) Alert() notify.Alert {
	return notify.Alert{
		Recipient: m.Recipient,
		Username:  m.Username,
		Category:  m.Category,
		Spent:     core.Money{Cents: m.SpentCents},
		Budget:    core.Money{Cents: m.BudgetCents},
		Currency:  m.Currency,
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
