package services

import (
	stderrors "errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

type transactionService struct {
	db           *gorm.DB
	alertService AlertServicer
}

// NewTransactionService creates a new transaction service instance. The
// alert service is invoked after every successful write so budget alerts
// and the statistics cache stay current.
func NewTransactionService(db *gorm.DB, alertService AlertServicer) TransactionServicer {
	return &transactionService{db: db, alertService: alertService}
}

// CreateTransaction records an income or expense entry for a user.
func (s *transactionService) CreateTransaction(userID uint, categoryID *uint, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error) {
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, errors.ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, errors.ErrAmountNotPositive
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
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("transaction created",
		"user_id", userID,
		"transaction_id", transaction.ID,
		"type", transaction.Type,
		"amount", transaction.Amount,
	)

	s.alertService.TransactionWritten(userID, transactionType, true)
	return s.GetTransactionByID(userID, transaction.ID)
}

// GetUserTransactions returns a page of the user's transactions, newest
// first, optionally narrowed by date range, type and category.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := query.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(transactions, page.Page, page.PageSize, total)
	return &response, nil
}

// GetTransactionByID retrieves one of the user's transactions by primary key.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update to one of the user's
// transactions. Nil fields are left unchanged.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, categoryID *uint, transactionType *models.TransactionType, amount *decimal.Decimal, description *string, date *time.Time) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if transactionType != nil {
		if *transactionType != models.TransactionTypeIncome && *transactionType != models.TransactionTypeExpense {
			return nil, errors.ErrInvalidTransactionType
		}
		transaction.Type = *transactionType
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, errors.ErrAmountNotPositive
		}
		transaction.Amount = *amount
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
		transaction.CategoryID = categoryID
	}
	if description != nil {
		transaction.Description = *description
	}
	if date != nil {
		transaction.Date = *date
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	s.alertService.TransactionWritten(userID, transaction.Type, false)
	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes one of the user's transactions.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("transaction deleted", "user_id", userID, "transaction_id", transactionID)
	s.alertService.TransactionDeleted(userID)
	return nil
}
