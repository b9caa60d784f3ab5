// Package observability exposes Prometheus metrics for the star economy.
// Scraped from /metrics when [metrics] is enabled in the config.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Star Economy Metrics ───────────────────────────────────────────────────

var (
	starsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xingtu_stars_credited_total",
		Help: "Stars credited to the ledger, by earning category.",
	}, []string{"category"})

	starsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xingtu_stars_spent_total",
		Help: "Stars debited from the ledger via redemptions.",
	})

	redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xingtu_redemptions_total",
		Help: "Redemption attempts by outcome.",
	}, []string{"outcome"})

	balance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xingtu_star_balance",
		Help: "Current star balance.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xingtu_http_requests_total",
		Help: "HTTP requests by route and status class.",
	}, []string{"route", "class"})
)

// RecordCredit counts stars earned in a category.
func RecordCredit(category string, amount int64) {
	starsCredited.WithLabelValues(category).Add(float64(amount))
}

// RecordSpend counts stars spent.
func RecordSpend(amount int64) {
	starsSpent.Add(float64(amount))
}

// RecordRedemption counts one redemption attempt.
// outcome is "completed", "insufficient_balance" or "item_not_found".
func RecordRedemption(outcome string) {
	redemptions.WithLabelValues(outcome).Inc()
}

// SetBalance publishes the current star balance.
func SetBalance(v int64) {
	balance.Set(float64(v))
}

// RecordHTTP counts one served request.
func RecordHTTP(route string, status int) {
	class := "2xx"
	switch {
	case status >= 500:
		class = "5xx"
	case status >= 400:
		class = "4xx"
	case status >= 300:
		class = "3xx"
	}
	httpRequests.WithLabelValues(route, class).Inc()
}
