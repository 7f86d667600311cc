package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

type statsService struct {
	db    *gorm.DB
	store *cache.Store[*StatsReport]
}

// NewStatsService creates the statistics service backed by the given cache
// store.
func NewStatsService(db *gorm.DB, store *cache.Store[*StatsReport]) StatsServicer {
	return &statsService{db: db, store: store}
}

// GetStatistics returns the user's monthly income and expense totals,
// oldest month first. Results are cached per user until the TTL lapses or
// a transaction write invalidates them.
func (s *statsService) GetStatistics(userID uint) (*StatsReport, error) {
	key := cache.StatsKey(userID)
	if report, ok := s.store.Get(key); ok {
		return report, nil
	}

	var transactions []models.Transaction
	err := s.db.Select("type", "amount", "date").
		Where("user_id = ?", userID).
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	report := buildReport(transactions)
	s.store.Set(key, report)
	logger.Get().Debugw("statistics computed", "user_id", userID, "months", len(report.Months))
	return report, nil
}

// Invalidate drops the user's cached statistics.
func (s *statsService) Invalidate(userID uint) {
	s.store.Delete(cache.StatsKey(userID))
}

// buildReport buckets transactions by calendar month. Aggregation happens
// in Go so the query stays portable across postgres and the sqlite test
// database.
func buildReport(transactions []models.Transaction) *StatsReport {
	type monthTotals struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}

	totals := make(map[string]monthTotals)
	for _, transaction := range transactions {
		month := transaction.Date.Format("2006-01")
		entry := totals[month]
		switch transaction.Type {
		case models.TransactionTypeIncome:
			entry.income = entry.income.Add(transaction.Amount)
		case models.TransactionTypeExpense:
			entry.expense = entry.expense.Add(transaction.Amount)
		}
		totals[month] = entry
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	report := &StatsReport{
		Months:  months,
		Income:  make([]decimal.Decimal, 0, len(months)),
		Expense: make([]decimal.Decimal, 0, len(months)),
	}
	for _, month := range months {
		report.Income = append(report.Income, totals[month].income)
		report.Expense = append(report.Expense, totals[month].expense)
	}
	return report
}
