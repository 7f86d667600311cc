package services

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/models"
	"fintrack/internal/queue"
)

// recordingAlertService captures dispatcher hook calls for transaction and
// CSV tests that are not about alerting itself.
type recordingAlertService struct {
	mu      sync.Mutex
	written []models.TransactionType
	deleted int
}

func (r *recordingAlertService) GetUserAlerts(userID uint) ([]Alert, error) {
	return nil, nil
}

func (r *recordingAlertService) TransactionWritten(userID uint, transactionType models.TransactionType, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, transactionType)
}

func (r *recordingAlertService) TransactionDeleted(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
}

// recordingPublisher captures published alert messages.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []*queue.BudgetAlertMessage
}

func (p *recordingPublisher) PublishBudgetAlert(ctx context.Context, msg *queue.BudgetAlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) published() []*queue.BudgetAlertMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*queue.BudgetAlertMessage(nil), p.messages...)
}

func newTestStatsStore() *cache.Store[*StatsReport] {
	return cache.New[*StatsReport](15 * time.Minute)
}
