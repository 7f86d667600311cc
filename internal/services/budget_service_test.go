package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateBudgetLimit(t *testing.T) {
	t.Run("creates limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		limit, err := service.CreateBudgetLimit(user.ID, category.ID,
			decimal.RequireFromString("200.00"), models.BudgetPeriodMonth)
		testutil.AssertNoError(t, err)
		if limit.Category.Name != category.Name {
			t.Error("expected category to be preloaded")
		}
	})

	t.Run("rejects duplicate category and period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		_, err := service.CreateBudgetLimit(user.ID, category.ID,
			decimal.RequireFromString("200.00"), models.BudgetPeriodMonth)
		testutil.AssertNoError(t, err)

		_, err = service.CreateBudgetLimit(user.ID, category.ID,
			decimal.RequireFromString("300.00"), models.BudgetPeriodMonth)
		testutil.AssertAppError(t, err, errors.ErrDuplicateBudgetLimit)
	})

	t.Run("allows same category with different period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		_, err := service.CreateBudgetLimit(user.ID, category.ID,
			decimal.RequireFromString("200.00"), models.BudgetPeriodMonth)
		testutil.AssertNoError(t, err)

		_, err = service.CreateBudgetLimit(user.ID, category.ID,
			decimal.RequireFromString("50.00"), models.BudgetPeriodWeek)
		testutil.AssertNoError(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		_, err := service.CreateBudgetLimit(user.ID, category.ID,
			decimal.Zero, models.BudgetPeriodMonth)
		testutil.AssertAppError(t, err, errors.ErrAmountNotPositive)
	})
}

func TestUpdateBudgetLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID)
	limit := testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)
	testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "30.00", models.BudgetPeriodWeek)

	t.Run("updates amount", func(t *testing.T) {
		amount := decimal.RequireFromString("150.00")
		updated, err := service.UpdateBudgetLimit(user.ID, limit.ID, nil, &amount, nil)
		testutil.AssertNoError(t, err)
		if !updated.LimitAmount.Equal(amount) {
			t.Errorf("expected limit 150.00, got %s", updated.LimitAmount)
		}
	})

	t.Run("rejects move onto existing pair", func(t *testing.T) {
		week := models.BudgetPeriodWeek
		_, err := service.UpdateBudgetLimit(user.ID, limit.ID, nil, nil, &week)
		testutil.AssertAppError(t, err, errors.ErrDuplicateBudgetLimit)
	})
}

func TestEvaluateAlerts(t *testing.T) {
	t.Run("warning below limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeExpense, "85.00")

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		alert := alerts[0]
		if !alert.Percentage.Equal(decimal.RequireFromString("85")) {
			t.Errorf("expected percentage 85, got %s", alert.Percentage)
		}
		if !alert.IsWarning {
			t.Error("expected warning at 85%")
		}
		if alert.IsExceeded {
			t.Error("did not expect exceeded at 85%")
		}
	})

	t.Run("exceeded over limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeExpense, "150.00")

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		alert := alerts[0]
		if !alert.Percentage.Equal(decimal.RequireFromString("150")) {
			t.Errorf("expected percentage 150, got %s", alert.Percentage)
		}
		if !alert.IsWarning || !alert.IsExceeded {
			t.Error("expected both warning and exceeded at 150%")
		}
	})

	t.Run("exceeded exactly at limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeExpense, "100.00")

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 || !alerts[0].IsExceeded {
			t.Fatal("expected exceeded alert at exactly 100%")
		}
	})

	t.Run("no spend yields no alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %d", len(alerts))
		}
	})

	t.Run("income never counts as spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodMonth)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeIncome, "500.00")

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts from income, got %d", len(alerts))
		}
	})

	t.Run("spend outside period window is ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "100.00", models.BudgetPeriodDay)

		yesterday := &models.Transaction{
			UserID:     user.ID,
			CategoryID: &category.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.RequireFromString("90.00"),
			Date:       time.Now().AddDate(0, 0, -1),
		}
		if err := db.Create(yesterday).Error; err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts for yesterday's spend, got %d", len(alerts))
		}
	})

	t.Run("percentage rounds to one decimal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "300.00", models.BudgetPeriodMonth)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeExpense, "100.00")

		alerts, err := service.EvaluateAlerts(user.ID, time.Now())
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if !alerts[0].Percentage.Equal(decimal.RequireFromString("33.3")) {
			t.Errorf("expected percentage 33.3, got %s", alerts[0].Percentage)
		}
	})
}
