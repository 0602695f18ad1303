// internal/app/status_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/metrics"
	"homework_status_bot/internal/infra/practicum"

	"github.com/sirupsen/logrus"
)

// Fetcher polls the status endpoint for changes since fromDate.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (homework.RawResponse, error)
}

// MessageNotifier delivers one message to the chat.
type MessageNotifier interface {
	Notify(ctx context.Context, kind notification.Kind, text string) error
}

// StatusService runs one poll-detect-notify cycle at a time. It owns the
// from_date cursor and the error deduplicator and must not be shared between
// goroutines.
type StatusService struct {
	fetcher  Fetcher
	notifier MessageNotifier
	dedup    *ErrorDeduplicator
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
	now      func() time.Time

	cursor int64
}

func NewStatusService(
	f Fetcher,
	n MessageNotifier,
	dedup *ErrorDeduplicator,
	m *metrics.Metrics,
	logger logrus.FieldLogger,
) *StatusService {
	s := &StatusService{
		fetcher:  f,
		notifier: n,
		dedup:    dedup,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
	s.cursor = s.now().Unix()
	s.metrics.SetCursor(s.cursor)
	return s
}

// Cursor returns the from_date that the next cycle will use.
func (s *StatusService) Cursor() int64 {
	return s.cursor
}

// RunCycle polls once and reacts to the outcome. It never returns an error:
// every failure is logged and, unless deduplicated, reported to the chat.
func (s *StatusService) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.ObservePoll(metrics.PollError)
			s.reportError(ctx, fmt.Errorf("unexpected panic: %v", r))
		}
	}()

	result, err := s.poll(ctx)
	if err != nil {
		s.metrics.ObservePoll(metrics.PollError)
		s.reportError(ctx, err)
		return
	}
	s.metrics.ObservePoll(result)
}

func (s *StatusService) poll(ctx context.Context) (string, error) {
	logCtx := s.logger.WithField("cursor", s.cursor)

	raw, err := s.fetcher.Fetch(ctx, s.cursor)
	if err != nil {
		return "", err
	}

	env, err := homework.Validate(raw)
	if err != nil {
		return "", err
	}

	n, changed, err := homework.Extract(env)
	if err != nil {
		return "", err
	}
	if !changed {
		logCtx.Debug("No homework status changes in the API response")
		s.advance(env.CurrentDate)
		return metrics.PollNoChange, nil
	}

	logCtx = logCtx.WithFields(logrus.Fields{"homework": n.HomeworkName, "status": n.Status})
	logCtx.Info("Homework status changed")

	if err := s.notifier.Notify(ctx, notification.KindStatusChange, n.Text); err != nil {
		// Keeping the cursor makes the API return the same record next cycle.
		logCtx.Warn("Status change not delivered, cursor kept for retry")
		return metrics.PollDeliveryFailed, nil
	}
	s.advance(env.CurrentDate)
	return metrics.PollNotified, nil
}

// advance moves the cursor past currentDate. It never moves backwards.
func (s *StatusService) advance(currentDate *int64) {
	if currentDate == nil {
		return
	}
	next := *currentDate + 1
	if next <= s.cursor {
		return
	}
	s.logger.WithFields(logrus.Fields{"from": s.cursor, "to": next}).Debug("Cursor advanced")
	s.cursor = next
	s.metrics.SetCursor(next)
}

func (s *StatusService) reportError(ctx context.Context, err error) {
	msg := err.Error()
	s.logger.WithError(err).WithFields(logrus.Fields{
		"cursor":     s.cursor,
		"error_kind": errorKind(err),
	}).Error("Poll cycle failed")

	now := s.now()
	if !s.dedup.ShouldNotify(msg, now) {
		s.logger.WithField("error_kind", errorKind(err)).Debug("Same error already reported recently, not notifying")
		return
	}
	if err := s.notifier.Notify(ctx, notification.KindError, notification.ErrorMessagePrefix+msg); err != nil {
		return
	}
	s.dedup.Record(msg, now)
}

func errorKind(err error) string {
	var (
		transportErr *practicum.TransportError
		httpErr      *practicum.HTTPError
		appErr       *practicum.ApplicationError
		shapeErr     *homework.ShapeError
		missingErr   *homework.MissingFieldError
		unknownErr   *homework.UnknownStatusError
	)
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &appErr):
		return "application"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.As(err, &missingErr):
		return "missing_field"
	case errors.As(err, &unknownErr):
		return "unknown_status"
	default:
		return "unexpected"
	}
}
