package queue

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetAlertMessage is the payload queued for the notification worker when
// a newly created expense pushes a budget over its limit. It carries
// everything the worker needs so no database access is required on the
// consuming side.
type BudgetAlertMessage struct {
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Period     string          `json:"period"`
	Spent      decimal.Decimal `json:"spent"`
	Limit      decimal.Decimal `json:"limit"`
	Percentage decimal.Decimal `json:"percentage"`
	Timestamp  time.Time       `json:"timestamp"`
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
