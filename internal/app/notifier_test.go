package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type sentMessage struct {
	chatID string
	text   string
}

type stubTelegram struct {
	sent []sentMessage
	err  error // returned (and nothing recorded) while set
}

func (s *stubTelegram) SendMessage(_ context.Context, chatID string, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type memoryJournal struct {
	entries []notification.Delivery
	err     error
}

func (j *memoryJournal) Append(_ context.Context, d *notification.Delivery) error {
	j.entries = append(j.entries, *d)
	return j.err
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func TestNotifierDelivers(t *testing.T) {
	tg := &stubTelegram{}
	journal := &memoryJournal{}
	logger, hook := newTestLogger()
	n := NewNotifier(tg, "-100", time.Millisecond, journal, metrics.New(prometheus.NewRegistry()), logger)

	if err := n.Notify(context.Background(), notification.KindStatusChange, "hello"); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if len(tg.sent) != 1 || tg.sent[0].chatID != "-100" || tg.sent[0].text != "hello" {
		t.Fatalf("unexpected sends: %+v", tg.sent)
	}
	if len(journal.entries) != 1 || !journal.entries[0].Delivered || journal.entries[0].Kind != notification.KindStatusChange {
		t.Fatalf("unexpected journal: %+v", journal.entries)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.DebugLevel {
		t.Fatalf("expected a debug log entry for the delivery")
	}
}

func TestNotifierFailureIsReturnedNotPanicked(t *testing.T) {
	sendErr := errors.New("telegram: chat not found (400)")
	tg := &stubTelegram{err: sendErr}
	journal := &memoryJournal{}
	logger, hook := newTestLogger()
	n := NewNotifier(tg, "-100", time.Millisecond, journal, metrics.New(prometheus.NewRegistry()), logger)

	err := n.Notify(context.Background(), notification.KindError, "boom")
	var delivery *DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if !errors.Is(err, sendErr) {
		t.Fatalf("DeliveryError must wrap the send error")
	}
	if len(journal.entries) != 1 || journal.entries[0].Delivered || journal.entries[0].Error == "" {
		t.Fatalf("failed attempt must be journaled: %+v", journal.entries)
	}
	if hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("expected error log, got %s", hook.LastEntry().Level)
	}
}

func TestNotifierJournalFailureDoesNotFailDelivery(t *testing.T) {
	tg := &stubTelegram{}
	journal := &memoryJournal{err: errors.New("db down")}
	logger, _ := newTestLogger()
	n := NewNotifier(tg, "-100", time.Millisecond, journal, metrics.New(prometheus.NewRegistry()), logger)

	if err := n.Notify(context.Background(), notification.KindStatusChange, "hi"); err != nil {
		t.Fatalf("journal failure leaked into delivery: %v", err)
	}
	if len(tg.sent) != 1 {
		t.Fatalf("message was not sent")
	}
}

func TestNotifierHonoursCancelledContext(t *testing.T) {
	tg := &stubTelegram{}
	logger, _ := newTestLogger()
	n := NewNotifier(tg, "-100", time.Hour, nil, metrics.New(prometheus.NewRegistry()), logger)

	// Use up the single token so the next call has to wait.
	if err := n.Notify(context.Background(), notification.KindStatusChange, "first"); err != nil {
		t.Fatalf("first Notify failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, notification.KindStatusChange, "second"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if len(tg.sent) != 1 {
		t.Fatalf("rate-limited message must not be sent, got %d", len(tg.sent))
	}
}
