package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statuspulse"

var notificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notifications",
		Name:      "sent_total",
		Help:      "Total incident notifications processed by sink and outcome",
	},
	[]string{"sink", "status"},
)

// recordNotification records one processed notification.
func recordNotification(sink, status string) {
	notificationsSent.WithLabelValues(sink, status).Inc()
}
