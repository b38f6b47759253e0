// Package metrics регистрирует Prometheus-коллекторы сервиса проката.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов HTTP-слоя и фоновой сверки.
type Metrics struct {
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	ReconcileTransitions *prometheus.CounterVec
	ReconcileRuns        *prometheus.CounterVec
	PaymentDecisions     *prometheus.CounterVec
}

// New создает коллекторы и регистрирует их в reg.
// Для тестов удобно передавать prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "car_rental",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "car_rental",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ReconcileTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "car_rental",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions applied by the reconciler.",
		}, []string{"to"}),
		ReconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "car_rental",
			Name:      "reconcile_runs_total",
			Help:      "Reconciler runs by result.",
		}, []string{"result"}),
		PaymentDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "car_rental",
			Name:      "payment_decisions_total",
			Help:      "Admin payment verifications by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.ReconcileTransitions, m.ReconcileRuns, m.PaymentDecisions)
	}
	return m
}

// ObserveTransitions учитывает переходы одного прогона сверки.
func (m *Metrics) ObserveTransitions(to string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReconcileTransitions.WithLabelValues(to).Add(float64(n))
}

// ObserveRun учитывает завершение прогона сверки.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ReconcileRuns.WithLabelValues(result).Inc()
}

// ObservePayment учитывает решение администратора по платежу.
func (m *Metrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.PaymentDecisions.WithLabelValues(outcome).Inc()
}
