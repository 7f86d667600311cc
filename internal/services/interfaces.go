package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/queue"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string) (*models.Category, error)
	EnsureCategory(userID uint, name string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID *uint, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, categoryID *uint, transactionType *models.TransactionType, amount *decimal.Decimal, description *string, date *time.Time) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// Alert describes spend-vs-limit status for one budget limit in its current
// period. Alerts are derived on demand and never persisted.
type Alert struct {
	Category   string          `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Limit      decimal.Decimal `json:"limit"`
	Period     string          `json:"period"`
	Percentage decimal.Decimal `json:"percentage"`
	IsWarning  bool            `json:"is_warning"`
	IsExceeded bool            `json:"is_exceeded"`
}

// BudgetServicer defines the contract for budget-limit business logic.
type BudgetServicer interface {
	CreateBudgetLimit(userID, categoryID uint, limitAmount decimal.Decimal, period models.BudgetPeriod) (*models.BudgetLimit, error)
	GetUserBudgetLimits(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error)
	GetBudgetLimitByID(userID, limitID uint) (*models.BudgetLimit, error)
	UpdateBudgetLimit(userID, limitID uint, categoryID *uint, limitAmount *decimal.Decimal, period *models.BudgetPeriod) (*models.BudgetLimit, error)
	DeleteBudgetLimit(userID, limitID uint) error
	EvaluateAlerts(userID uint, today time.Time) ([]Alert, error)
}

// AlertPublisher is the notification queue boundary consumed by the alert
// dispatcher. Satisfied by queue.Client.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *queue.BudgetAlertMessage) error
}

// AlertServicer defines the contract for alert evaluation and the
// transaction post-write hooks.
type AlertServicer interface {
	GetUserAlerts(userID uint) ([]Alert, error)
	TransactionWritten(userID uint, transactionType models.TransactionType, created bool)
	TransactionDeleted(userID uint)
}

// StatsReport is a per-user statistics snapshot of monthly totals.
type StatsReport struct {
	Months  []string          `json:"months"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

// StatsServicer defines the contract for the cached statistics dashboard.
type StatsServicer interface {
	GetStatistics(userID uint) (*StatsReport, error)
	Invalidate(userID uint)
}

// ImportResult reports the outcome of a CSV import: rows created plus one
// message per rejected row. A bad row never aborts the batch.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// CSVServicer defines the contract for CSV import and export of transactions.
type CSVServicer interface {
	Export(userID uint, w io.Writer) error
	Import(userID uint, r io.Reader) (*ImportResult, error)
}
