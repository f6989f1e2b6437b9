package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutScansTotal counts scanned product codes by outcome.
	CheckoutScansTotal *prometheus.CounterVec
	// CheckoutQuotesTotal counts basket quotes by outcome.
	CheckoutQuotesTotal *prometheus.CounterVec
	// CheckoutQuoteAmount records the rounded total of successful quotes.
	CheckoutQuoteAmount prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_scans_total",
			Help:      "Count of scanned product codes by outcome.",
		}, []string{"result"})
		CheckoutQuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_quotes_total",
			Help:      "Count of basket quotes by outcome.",
		}, []string{"result"})
		CheckoutQuoteAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_quote_total_amount",
			Help:      "Distribution of quoted basket totals.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})

		CheckoutScansTotal = register(reg, CheckoutScansTotal)
		CheckoutQuotesTotal = register(reg, CheckoutQuotesTotal)
		CheckoutQuoteAmount = register(reg, CheckoutQuoteAmount)
	})
}
