package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the recurring window a budget limit is
// evaluated against.
type BudgetPeriod string

const (
	BudgetPeriodDay   BudgetPeriod = "DAY"
	BudgetPeriodWeek  BudgetPeriod = "WEEK"
	BudgetPeriodMonth BudgetPeriod = "MONTH"
)

// Start returns the inclusive start date of the period window containing
// today. DAY is today itself, WEEK is the Monday of today's week, MONTH is
// the first calendar day of today's month. An unknown period falls back to
// today; values are constrained to the three constants at the binding layer.
func (p BudgetPeriod) Start(today time.Time) time.Time {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	switch p {
	case BudgetPeriodDay:
		return today
	case BudgetPeriodWeek:
		// time.Weekday counts from Sunday; shift so Monday is 0.
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset)
	case BudgetPeriodMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	}
	return today
}

// Label returns the human-readable period name used in alerts and mails.
func (p BudgetPeriod) Label() string {
	switch p {
	case BudgetPeriodDay:
		return "Daily"
	case BudgetPeriodWeek:
		return "Weekly"
	case BudgetPeriodMonth:
		return "Monthly"
	}
	return string(p)
}

// BudgetLimit represents a per-category spending limit. A user may have at
// most one limit per (category, period) pair.
type BudgetLimit struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null" json:"category_id"`
	LimitAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"limit_amount"`
	Period      BudgetPeriod    `gorm:"not null" json:"period"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
