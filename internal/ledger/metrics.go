package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine outcomes by result ("ok" or an error code) and
// times each scope. A nil *Metrics records nothing.
type Metrics struct {
	payments      *prometheus.CounterVec
	deposits      *prometheus.CounterVec
	scopeDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_payments_total",
			Help: "Job payment attempts by result.",
		}, []string{"result"}),
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_deposits_total",
			Help: "Deposit attempts by result.",
		}, []string{"result"}),
		scopeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_scope_duration_seconds",
			Help:    "Time spent inside a ledger scope, including lock waits.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.payments, m.deposits, m.scopeDuration)
	}
	return m
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return "internal_error"
}

func (m *Metrics) observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.scopeDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	switch op {
	case opPayment:
		m.payments.WithLabelValues(resultLabel(err)).Inc()
	case opDeposit:
		m.deposits.WithLabelValues(resultLabel(err)).Inc()
	}
}
