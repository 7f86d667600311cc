package services

import (
	stderrors "errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// warningThreshold marks a limit as in warning once spend reaches 80% of it.
var warningThreshold = decimal.NewFromInt(80)

type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new budget service instance.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudgetLimit creates a spending limit for a category and period. A
// user may hold at most one limit per (category, period) pair.
func (s *budgetService) CreateBudgetLimit(userID, categoryID uint, limitAmount decimal.Decimal, period models.BudgetPeriod) (*models.BudgetLimit, error) {
	if !limitAmount.IsPositive() {
		return nil, errors.ErrAmountNotPositive
	}

	var category models.Category
	err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	var existing models.BudgetLimit
	err = s.db.Where("user_id = ? AND category_id = ? AND period = ?", userID, categoryID, period).
		First(&existing).Error
	if err == nil {
		return nil, errors.ErrDuplicateBudgetLimit
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	limit := &models.BudgetLimit{
		UserID:      userID,
		CategoryID:  categoryID,
		LimitAmount: limitAmount,
		Period:      period,
	}
	if err := s.db.Create(limit).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return s.GetBudgetLimitByID(userID, limit.ID)
}

// GetUserBudgetLimits returns a page of the user's budget limits.
func (s *budgetService) GetUserBudgetLimits(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error) {
	page.Defaults()

	query := s.db.Model(&models.BudgetLimit{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	var limits []models.BudgetLimit
	err := query.Preload("Category").
		Order("id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&limits).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(limits, page.Page, page.PageSize, total)
	return &response, nil
}

// GetBudgetLimitByID retrieves one of the user's budget limits by primary key.
func (s *budgetService) GetBudgetLimitByID(userID, limitID uint) (*models.BudgetLimit, error) {
	var limit models.BudgetLimit
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", limitID, userID).
		First(&limit).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBudgetLimitNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &limit, nil
}

// UpdateBudgetLimit applies a partial update to one of the user's budget
// limits. Nil fields are left unchanged.
func (s *budgetService) UpdateBudgetLimit(userID, limitID uint, categoryID *uint, limitAmount *decimal.Decimal, period *models.BudgetPeriod) (*models.BudgetLimit, error) {
	limit, err := s.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		var category models.Category
		err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrCategoryNotFound
			}
			return nil, errors.Wrap(errors.ErrInternalServer, err)
		}
		limit.CategoryID = *categoryID
	}
	if limitAmount != nil {
		if !limitAmount.IsPositive() {
			return nil, errors.ErrAmountNotPositive
		}
		limit.LimitAmount = *limitAmount
	}
	if period != nil {
		limit.Period = *period
	}

	var existing models.BudgetLimit
	err = s.db.Where("user_id = ? AND category_id = ? AND period = ? AND id <> ?",
		userID, limit.CategoryID, limit.Period, limitID).
		First(&existing).Error
	if err == nil {
		return nil, errors.ErrDuplicateBudgetLimit
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	if err := s.db.Save(limit).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return s.GetBudgetLimitByID(userID, limitID)
}

// DeleteBudgetLimit removes one of the user's budget limits.
func (s *budgetService) DeleteBudgetLimit(userID, limitID uint) error {
	limit, err := s.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(limit).Error; err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

// EvaluateAlerts computes spend-vs-limit status for every budget limit of
// the user as of today. Spend sums the user's expense transactions in the
// limit's category dated within the current period. Limits with no spend
// yet produce no alert.
func (s *budgetService) EvaluateAlerts(userID uint, today time.Time) ([]Alert, error) {
	var limits []models.BudgetLimit
	err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&limits).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	alerts := make([]Alert, 0, len(limits))
	for _, limit := range limits {
		periodStart := limit.Period.Start(today)

		var spent decimal.Decimal
		err := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND category_id = ? AND type = ? AND date >= ?",
				userID, limit.CategoryID, models.TransactionTypeExpense, periodStart).
			Scan(&spent).Error
		if err != nil {
			return nil, errors.Wrap(errors.ErrInternalServer, err)
		}

		if !spent.IsPositive() {
			continue
		}

		percentage := spent.Div(limit.LimitAmount).Mul(decimal.NewFromInt(100)).Round(1)
		alerts = append(alerts, Alert{
			Category:   limit.Category.Name,
			Spent:      spent,
			Limit:      limit.LimitAmount,
			Period:     limit.Period.Label(),
			Percentage: percentage,
			IsWarning:  percentage.GreaterThanOrEqual(warningThreshold),
			IsExceeded: spent.GreaterThanOrEqual(limit.LimitAmount),
		})
	}
	return alerts, nil
}
