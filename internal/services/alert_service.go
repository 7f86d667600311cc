package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/queue"
)

type alertService struct {
	db            *gorm.DB
	budgetService BudgetServicer
	statsService  StatsServicer
	userService   UserServicer
	publisher     AlertPublisher
}

// NewAlertService creates the alert dispatcher. The publisher may be nil
// when no message broker is configured, in which case exceeded limits are
// only logged.
func NewAlertService(db *gorm.DB, budgetService BudgetServicer, statsService StatsServicer, userService UserServicer, publisher AlertPublisher) AlertServicer {
	return &alertService{
		db:            db,
		budgetService: budgetService,
		statsService:  statsService,
		userService:   userService,
		publisher:     publisher,
	}
}

// GetUserAlerts evaluates the user's budget limits as of now.
func (s *alertService) GetUserAlerts(userID uint) ([]Alert, error) {
	return s.budgetService.EvaluateAlerts(userID, time.Now())
}

// TransactionWritten runs after a transaction create or update. Expense
// writes trigger a budget evaluation, and newly created expenses that push
// a limit over publish an email notification per exceeded limit. The
// statistics cache is dropped unconditionally. Evaluation and publish
// failures are logged and never surface to the write path.
func (s *alertService) TransactionWritten(userID uint, transactionType models.TransactionType, created bool) {
	defer s.statsService.Invalidate(userID)

	if transactionType != models.TransactionTypeExpense {
		return
	}

	log := logger.Get()
	alerts, err := s.budgetService.EvaluateAlerts(userID, time.Now())
	if err != nil {
		log.Errorw("budget evaluation failed", "user_id", userID, "error", err)
		return
	}

	for _, alert := range alerts {
		if !alert.IsExceeded {
			continue
		}
		log.Warnw("budget limit exceeded",
			"user_id", userID,
			"category", alert.Category,
			"period", alert.Period,
			"spent", alert.Spent,
			"limit", alert.Limit,
		)
		if created {
			s.publishAlert(userID, alert)
		}
	}
}

// TransactionDeleted runs after a transaction delete. Deletes only
// invalidate the statistics cache and never notify.
func (s *alertService) TransactionDeleted(userID uint) {
	s.statsService.Invalidate(userID)
}

func (s *alertService) publishAlert(userID uint, alert Alert) {
	if s.publisher == nil {
		return
	}

	log := logger.Get()
	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		log.Errorw("alert recipient lookup failed", "user_id", userID, "error", err)
		return
	}
	if user.Email == "" {
		return
	}

	msg := &queue.BudgetAlertMessage{
		Email:      user.Email,
		Name:       user.DisplayName(),
		Category:   alert.Category,
		Period:     alert.Period,
		Spent:      alert.Spent,
		Limit:      alert.Limit,
		Percentage: alert.Percentage,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.PublishBudgetAlert(context.Background(), msg); err != nil {
		log.Errorw("alert publish failed",
			"user_id", userID,
			"category", alert.Category,
			"error", err,
		)
	}
}
