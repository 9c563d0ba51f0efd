package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	LoginsStarted  *prometheus.CounterVec
	TokenExchanges *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursegate_logins_started_total",
			Help: "Login redirects issued, by provider.",
		}, []string{"provider"}),
		TokenExchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursegate_token_exchanges_total",
			Help: "Authorization-code exchanges, by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
}

// ObserveLoginStarted counts one login redirect for the provider.
func (m *Metrics) ObserveLoginStarted(provider string) {
	m.LoginsStarted.WithLabelValues(provider).Inc()
}

// ObserveExchange counts one exchange attempt with its outcome.
func (m *Metrics) ObserveExchange(provider, outcome string) {
	m.TokenExchanges.WithLabelValues(provider, outcome).Inc()
}
