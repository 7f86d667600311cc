package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/queue"
)

// Notifier sends formatted budget alert emails with a bounded retry loop.
type Notifier struct {
	sender  Sender
	retries int
	delay   time.Duration
}

// New creates a Notifier. retries is the number of additional attempts
// after the first failure; delay is the fixed wait between attempts.
func New(sender Sender, retries int, delay time.Duration) *Notifier {
	return &Notifier{sender: sender, retries: retries, delay: delay}
}

// SendBudgetAlert formats and delivers one alert job. It returns an error
// only after the retry budget is exhausted; that error is fatal for the
// job and must not be retried further by the caller.
func (n *Notifier) SendBudgetAlert(ctx context.Context, msg *queue.BudgetAlertMessage) error {
	subject := fmt.Sprintf("Budget Alert: %s limit exceeded", msg.Category)
	body := formatAlertBody(msg)

	log := logger.Get()
	var lastErr error
	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}

		lastErr = n.sender.Send(ctx, msg.Email, subject, body)
		if lastErr == nil {
			log.Infow("budget alert email sent", "email", msg.Email, "attempt", attempt+1)
			return nil
		}
		log.Errorw("failed to send budget alert email",
			"email", msg.Email,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	return fmt.Errorf("sending budget alert to %s failed after %d attempts: %w",
		msg.Email, n.retries+1, lastErr)
}

func formatAlertBody(msg *queue.BudgetAlertMessage) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"You have exceeded your %s budget limit for category %q.\n\n"+
			"  Spent:  %s\n"+
			"  Limit:  %s\n"+
			"  Usage:  %s%%\n\n"+
			"Consider reviewing your expenses.\n\n"+
			"The Fintrack team",
		msg.Name,
		strings.ToLower(msg.Period),
		msg.Category,
		msg.Spent.StringFixed(2),
		msg.Limit.StringFixed(2),
		msg.Percentage.String(),
	)
}
