package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketLifecycleEvents is the total number of lifecycle transitions.
	TicketLifecycleEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "karma_ticketing_lifecycle_events_total",
			Help: "Total number of ticket lifecycle events",
		},
		[]string{"event"},
	)

	// CloseReasonTimeouts is the total number of expired close-with-reason
	// requests.
	CloseReasonTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "karma_ticketing_close_reason_timeouts_total",
			Help: "Total number of close requests abandoned on timeout",
		},
	)

	// AuditDeliveryFailures is the total number of failed audit deliveries.
	AuditDeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "karma_ticketing_audit_delivery_failures_total",
			Help: "Total number of failed audit sink deliveries",
		},
		[]string{"sink"},
	)
)
