// Package metrics holds the domain counters exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prospectsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospects_created_total",
			Help: "Total number of prospects created",
		},
	)

	prospectAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_analyses_total",
			Help: "Total number of prospect analyses by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	providerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_provider_errors_total",
			Help: "Total number of failed LLM provider calls",
		},
		[]string{"provider"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	outreachEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_emails_total",
			Help: "Total number of outreach emails",
		},
		[]string{"outcome"},
	)
)

func RecordProspectCreated() {
	prospectsCreated.Inc()
}

func RecordAnalysis(strategy, outcome string) {
	prospectAnalyses.WithLabelValues(strategy, outcome).Inc()
}

func RecordProviderError(provider string) {
	providerErrors.WithLabelValues(provider).Inc()
}

func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

func RecordOutreach(outcome string) {
	outreachEmails.WithLabelValues(outcome).Inc()
}
