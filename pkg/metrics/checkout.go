package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	CheckoutResultCompleted = "completed"
	CheckoutResultRejected  = "rejected"
	CheckoutResultFailed    = "failed"
)

// CheckoutMetrics tracks order placement outcomes and revenue.
type CheckoutMetrics struct {
	attempts *prometheus.CounterVec
	revenue  prometheus.Counter
	items    prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_revenue_total",
		Help: "Sum of completed order totals.",
	})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_items",
		Help:    "Line items per completed order.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	reg.MustRegister(attempts, revenue, items)
	return &CheckoutMetrics{attempts: attempts, revenue: revenue, items: items}
}

// Completed records a committed order.
func (m *CheckoutMetrics) Completed(total decimal.Decimal, lineItems int) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(CheckoutResultCompleted).Inc()
	m.revenue.Add(total.InexactFloat64())
	m.items.Observe(float64(lineItems))
}

// Rejected records a checkout refused for client reasons (validation, missing product).
func (m *CheckoutMetrics) Rejected() {
	m.inc(CheckoutResultRejected)
}

// Failed records a checkout that hit a server-side error.
func (m *CheckoutMetrics) Failed() {
	m.inc(CheckoutResultFailed)
}

func (m *CheckoutMetrics) inc(result string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(result).Inc()
}
