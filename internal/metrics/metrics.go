// Package metrics holds the Prometheus collectors for the transaction engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	purchases  *prometheus.CounterVec
	sales      prometheus.Counter
	rejections *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_purchases_total",
			Help: "Recorded purchases by payment mode.",
		}, []string{"mode"}),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_sales_total",
			Help: "Recorded member sales.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_rejections_total",
			Help: "Rejected engine operations by rule.",
		}, []string{"operation", "rule"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Engine operation latency, including lock waits.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.purchases, m.sales, m.rejections, m.duration)
	return m
}

func (m *Metrics) ObservePurchase(mode string, d time.Duration) {
	m.purchases.WithLabelValues(mode).Inc()
	m.duration.WithLabelValues("purchase").Observe(d.Seconds())
}

func (m *Metrics) ObserveSale(d time.Duration) {
	m.sales.Inc()
	m.duration.WithLabelValues("sale").Observe(d.Seconds())
}

func (m *Metrics) ObserveRejection(operation, rule string) {
	m.rejections.WithLabelValues(operation, rule).Inc()
}
