// internal/app/notifier.go
package app

import (
	"context"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram" // Import from domain
	"homework_status_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DeliveryError wraps a failed send.
type DeliveryError struct {
	Kind notification.Kind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s message: %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Notifier delivers text to the single configured chat, one attempt per call.
type Notifier struct {
	telegramClient domainTelegram.Client
	chatID         string
	limiter        *rate.Limiter
	journal        notification.Journal
	metrics        *metrics.Metrics
	logger         logrus.FieldLogger
	now            func() time.Time
}

func NewNotifier(
	tc domainTelegram.Client,
	chatID string,
	minInterval time.Duration, // Minimum spacing between two sends
	journal notification.Journal,
	m *metrics.Metrics,
	logger logrus.FieldLogger,
) *Notifier {
	if journal == nil {
		journal = notification.NopJournal{}
	}
	return &Notifier{
		telegramClient: tc,
		chatID:         chatID,
		limiter:        rate.NewLimiter(rate.Every(minInterval), 1),
		journal:        journal,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// Notify sends text once. A failure is logged and returned as *DeliveryError;
// the caller decides what it means for the cursor.
func (n *Notifier) Notify(ctx context.Context, kind notification.Kind, text string) error {
	logCtx := n.logger.WithField("kind", kind)

	err := n.limiter.Wait(ctx)
	if err == nil {
		err = n.telegramClient.SendMessage(ctx, n.chatID, text)
	}

	d := &notification.Delivery{
		Kind:      kind,
		ChatID:    n.chatID,
		Text:      text,
		Delivered: err == nil,
		CreatedAt: n.now(),
	}
	if err != nil {
		d.Error = err.Error()
	}
	if jErr := n.journal.Append(ctx, d); jErr != nil {
		logCtx.WithError(jErr).Warn("Failed to append delivery to journal")
	}
	n.metrics.ObserveNotification(string(kind), err == nil)

	if err != nil {
		logCtx.WithError(err).Errorf("Failed to send message to Telegram: %s", text)
		return &DeliveryError{Kind: kind, Err: err}
	}
	logCtx.Debugf("Message sent to Telegram: %s", text)
	return nil
}
