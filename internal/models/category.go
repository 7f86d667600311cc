package models

// Category represents a transaction category. Category names are unique
// per user; different users may use the same name independently.
type Category struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	BudgetLimits []BudgetLimit `gorm:"foreignKey:CategoryID" json:"budget_limits,omitempty"`
}
