package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date" json:"date"`
	Description string          `json:"description"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
