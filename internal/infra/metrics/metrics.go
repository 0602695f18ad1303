// Package metrics exposes Prometheus counters for the poll loop and the notifier.
//
// Labels are closed sets so cardinality stays fixed:
//
//   - result:  outcome of a poll cycle (notified, no_change, delivery_failed, error)
//   - kind:    STATUS_CHANGE or ERROR
//   - outcome: delivered or failed
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Poll cycle outcomes.
const (
	PollNotified       = "notified"
	PollNoChange       = "no_change"
	PollDeliveryFailed = "delivery_failed"
	PollError          = "error"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	polls         *prometheus.CounterVec
	notifications *prometheus.CounterVec
	cursor        prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to keep them isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homework_bot_polls_total",
				Help: "Poll cycles by outcome.",
			},
			[]string{"result"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homework_bot_notifications_total",
				Help: "Outbound Telegram messages by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		cursor: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "homework_bot_cursor",
				Help: "Current from_date cursor (Unix seconds).",
			},
		),
	}
	reg.MustRegister(m.polls, m.notifications, m.cursor)
	return m
}

func (m *Metrics) ObservePoll(result string) {
	m.polls.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveNotification(kind string, delivered bool) {
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) SetCursor(cursor int64) {
	m.cursor.Set(float64(cursor))
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", addr).Info("Metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
