package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters. One instance is created at startup
// and shared by the services.
type Metrics struct {
	PledgesCreated prometheus.Counter
	WebhookEvents  *prometheus.CounterVec
	Refunds        *prometheus.CounterVec
	PledgesReaped  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PledgesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "spotpay_pledges_created_total",
			Help: "Payments created in pledged status.",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spotpay_webhook_events_total",
			Help: "Provider webhook events by type and outcome.",
		}, []string{"type", "outcome"}),
		Refunds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spotpay_refunds_total",
			Help: "Refund attempts by outcome.",
		}, []string{"outcome"}),
		PledgesReaped: factory.NewCounter(prometheus.CounterOpts{
			Name: "spotpay_pledges_reaped_total",
			Help: "Stale pledges cancelled by the reaper.",
		}),
	}
}
