// Package metrics exposes Prometheus counters for the domain components.
package metrics

import (
	"strings"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DomainOperations counts domain operations by component, operation and result.
	DomainOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectly_domain_operations_total",
			Help: "Domain operations by component, operation and result code",
		},
		[]string{"component", "operation", "result"},
	)

	// NotificationsDropped counts side-effect notifications that failed to persist.
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectly_notifications_dropped_total",
			Help: "Fan-out notifications that could not be written",
		},
		[]string{"type"},
	)

	// ViewInvalidations counts stale-view signals by outcome.
	ViewInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectly_view_invalidations_total",
			Help: "View invalidation signals by outcome",
		},
		[]string{"outcome"},
	)
)

// Observe records one domain operation outcome.
func Observe(component, operation string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(models.ErrorCode(err))
	}
	DomainOperations.WithLabelValues(component, operation, result).Inc()
}
