// Package metrics defines and registers all custom Prometheus metrics for the
// citizen projects API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "citizen_projects"

// ProjectsCreatedTotal counts newly created funding requests.
// Label:
//   - category: the project category (e.g. "Agriculture")
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by category.",
	},
	[]string{"category"},
)

// ProjectTransitionsTotal counts successful lifecycle transitions.
// Labels:
//   - operation: submit, validate, approve, reject, request_documents
//   - to_status: the resulting project status
var ProjectTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_transitions_total",
		Help:      "Total number of successful project lifecycle transitions.",
	},
	[]string{"operation", "to_status"},
)

// DocumentUploadsTotal counts documents attached to projects.
// Label:
//   - content_type: the declared MIME type of the upload
var DocumentUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_uploads_total",
		Help:      "Total number of documents uploaded to projects.",
	},
	[]string{"content_type"},
)

// NotificationsCreatedTotal counts persisted in-app notifications.
// Label:
//   - type: the notification type tag (e.g. "project_submitted")
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of in-app notifications persisted.",
	},
	[]string{"type"},
)

// DeliveriesTotal counts out-of-band delivery attempts by result.
// Label:
//   - result: "ok" or "error"
var DeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of email delivery attempts, by result.",
	},
	[]string{"result"},
)

// DeliveryQueueDepth tracks pending deliveries in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of deliveries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
