package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

var fixtureCounter atomic.Int64

// TestPassword is the plaintext password behind every fixture user.
const TestPassword = "password123"

// CreateTestUser inserts a user with a unique email and a bcrypt hash of
// TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", fixtureCounter.Add(1)),
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory inserts a category with a unique name for the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Category %d", fixtureCounter.Add(1)),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, transactionType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Now(),
		Description: "fixture transaction",
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudgetLimit inserts a budget limit for the category and period.
func CreateTestBudgetLimit(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, period models.BudgetPeriod) *models.BudgetLimit {
	t.Helper()

	limit := &models.BudgetLimit{
		UserID:      userID,
		CategoryID:  categoryID,
		LimitAmount: decimal.RequireFromString(amount),
		Period:      period,
	}
	if err := db.Create(limit).Error; err != nil {
		t.Fatalf("failed to create test budget limit: %v", err)
	}
	return limit
}
