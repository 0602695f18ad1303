package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner performs a single poll cycle. It is expected to handle its own errors.
type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// PollScheduler alternates strictly between running a cycle and sleeping.
// Cycles never overlap: the next wake-up is computed only after the previous
// cycle has finished.
type PollScheduler struct {
	runner   CycleRunner
	schedule cron.Schedule
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewPollScheduler builds a scheduler around schedule, usually cron.Every(retryPeriod).
func NewPollScheduler(runner CycleRunner, schedule cron.Schedule, logger logrus.FieldLogger) *PollScheduler {
	return &PollScheduler{
		runner:   runner,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls immediately and then once per schedule tick until ctx is cancelled.
func (s *PollScheduler) Run(ctx context.Context) {
	s.logger.Info("Starting poll loop...")
	for s.runOnce(ctx) {
	}
	s.logger.Info("Poll loop stopped.")
}

// runOnce runs one cycle and then sleeps, whatever the cycle did. It reports
// false once ctx is done.
func (s *PollScheduler) runOnce(ctx context.Context) (keepGoing bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Poll cycle panicked")
		}
		keepGoing = s.sleep(ctx)
	}()

	if ctx.Err() != nil {
		return false
	}
	s.runner.RunCycle(ctx)
	return true
}

func (s *PollScheduler) sleep(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	now := s.now()
	wait := s.schedule.Next(now).Sub(now)
	s.logger.WithField("next_poll_in", wait.String()).Debug("Sleeping until next poll")

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
