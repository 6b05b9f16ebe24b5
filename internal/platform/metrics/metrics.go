// Package metrics registers the gateway's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// safe to call; tests that don't care about metrics pass nil and avoid
// duplicate registration on the default registry.
type Metrics struct {
	authDecisions      *prometheus.CounterVec
	tokensIssued       prometheus.Counter
	usersCreated       prometheus.Counter
	walletsProvisioned prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		authDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_auth_decisions_total",
			Help: "Gateway authentication decisions by route policy and outcome",
		}, []string{"policy", "outcome"}),
		tokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_session_tokens_issued_total",
			Help: "Session tokens minted by the gateway",
		}),
		usersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_users_created_total",
			Help: "Identity records created through the creation route",
		}),
		walletsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_wallets_provisioned_total",
			Help: "Custodial wallets generated (excludes idempotent re-reads)",
		}),
	}
}

// RecordDecision counts one gateway decision. outcome is "allow" or the
// rejection reason code.
func (m *Metrics) RecordDecision(policy, outcome string) {
	if m == nil {
		return
	}
	m.authDecisions.WithLabelValues(policy, outcome).Inc()
}

// IncrementTokensIssued counts a minted session token.
func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

// IncrementUsersCreated counts a created identity.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}

// IncrementWalletsProvisioned counts a freshly generated wallet.
func (m *Metrics) IncrementWalletsProvisioned() {
	if m == nil {
		return
	}
	m.walletsProvisioned.Inc()
}
