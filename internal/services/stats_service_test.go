package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/cache"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestGetStatistics(t *testing.T) {
	t.Run("buckets by month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewStatsService(db, newTestStatsStore())
		user := testutil.CreateTestUser(t, db)

		seed := func(transactionType models.TransactionType, amount string, date time.Time) {
			t.Helper()
			transaction := &models.Transaction{
				UserID: user.ID,
				Type:   transactionType,
				Amount: decimal.RequireFromString(amount),
				Date:   date,
			}
			if err := db.Create(transaction).Error; err != nil {
				t.Fatalf("failed to seed transaction: %v", err)
			}
		}

		january := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
		february := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
		seed(models.TransactionTypeIncome, "1000.00", january)
		seed(models.TransactionTypeExpense, "250.00", january)
		seed(models.TransactionTypeExpense, "75.50", february)

		report, err := service.GetStatistics(user.ID)
		testutil.AssertNoError(t, err)

		if len(report.Months) != 2 {
			t.Fatalf("expected 2 months, got %d", len(report.Months))
		}
		if report.Months[0] != "2026-01" || report.Months[1] != "2026-02" {
			t.Fatalf("expected months in order, got %v", report.Months)
		}
		if !report.Income[0].Equal(decimal.RequireFromString("1000.00")) {
			t.Errorf("expected january income 1000.00, got %s", report.Income[0])
		}
		if !report.Expense[0].Equal(decimal.RequireFromString("250.00")) {
			t.Errorf("expected january expense 250.00, got %s", report.Expense[0])
		}
		if !report.Income[1].IsZero() {
			t.Errorf("expected february income 0, got %s", report.Income[1])
		}
		if !report.Expense[1].Equal(decimal.RequireFromString("75.50")) {
			t.Errorf("expected february expense 75.50, got %s", report.Expense[1])
		}
	})

	t.Run("serves from cache until invalidated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := newTestStatsStore()
		service := NewStatsService(db, store)
		user := testutil.CreateTestUser(t, db)

		first, err := service.GetStatistics(user.ID)
		testutil.AssertNoError(t, err)
		if len(first.Months) != 0 {
			t.Fatalf("expected empty report, got %d months", len(first.Months))
		}

		// A direct insert bypasses the dispatcher, so the stale snapshot
		// keeps being served.
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, "10.00")
		cached, err := service.GetStatistics(user.ID)
		testutil.AssertNoError(t, err)
		if len(cached.Months) != 0 {
			t.Fatal("expected cached report before invalidation")
		}

		service.Invalidate(user.ID)
		fresh, err := service.GetStatistics(user.ID)
		testutil.AssertNoError(t, err)
		if len(fresh.Months) != 1 {
			t.Fatalf("expected recomputed report with 1 month, got %d", len(fresh.Months))
		}
	})

	t.Run("cache is per user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := newTestStatsStore()
		service := NewStatsService(db, store)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		_, err := service.GetStatistics(alice.ID)
		testutil.AssertNoError(t, err)
		_, err = service.GetStatistics(bob.ID)
		testutil.AssertNoError(t, err)

		service.Invalidate(alice.ID)
		if _, ok := store.Get(cache.StatsKey(alice.ID)); ok {
			t.Error("expected alice's cache entry to be gone")
		}
		if _, ok := store.Get(cache.StatsKey(bob.ID)); !ok {
			t.Error("expected bob's cache entry to survive")
		}
	})
}
