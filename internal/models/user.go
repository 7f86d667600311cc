package models

import "time"

// DefaultCategories are provisioned for every new user as an explicit
// post-registration step. Provisioning is idempotent per (user, name).
var DefaultCategories = []string{"Food", "Transport", "Utilities", "Entertainment"}

// User represents the user model in the database
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	BudgetLimits []BudgetLimit `gorm:"foreignKey:UserID" json:"budget_limits,omitempty"`
}

// DisplayName returns the name used when addressing the user in
// notifications, falling back to the email address.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}
