package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Document upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "document_uploads_total",
			Help:      "Total document uploads",
		},
		[]string{"content_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "document_upload_bytes_total",
			Help:      "Total document bytes uploaded",
		},
		[]string{"content_type"},
	)

	// LLM gateway calls
	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "completions_total",
			Help:      "Total LLM completion calls",
		},
		[]string{"status"},
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "completion_duration_seconds",
			Help:      "LLM completion call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// Outbound WhatsApp messages
	OutboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "outbound_messages_total",
			Help:      "Total messages dispatched through the messaging provider",
		},
		[]string{"status"},
	)

	// Webhook events
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "api",
			Name:      "webhook_events_total",
			Help:      "Total inbound webhook events",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a document upload.
func RecordUpload(contentType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

// RecordCompletion records an LLM gateway call.
func RecordCompletion(status string, durationSec float64) {
	CompletionsTotal.WithLabelValues(status).Inc()
	CompletionDuration.Observe(durationSec)
}

// RecordOutboundMessage records a provider dispatch.
func RecordOutboundMessage(status string) {
	OutboundMessagesTotal.WithLabelValues(status).Inc()
}

// RecordWebhookEvent records an inbound webhook event outcome.
func RecordWebhookEvent(outcome string) {
	WebhookEventsTotal.WithLabelValues(outcome).Inc()
}
