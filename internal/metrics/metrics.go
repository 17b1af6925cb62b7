package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Auth
	SignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Accepted signup requests",
		},
	)
	TokensIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Token requests by outcome",
		},
		[]string{"result"}, // ok|invalid_code
	)

	// Content
	ReviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "Reviews posted",
		},
	)
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Comments posted",
		},
	)

	// Mail
	MailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confirmation_mails_total",
			Help: "Confirmation mails by outcome",
		},
		[]string{"result"}, // sent|failed|dropped
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// /metrics endpoint handler
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			SignupsTotal,
			TokensIssued,
			ReviewsCreated,
			CommentsCreated,
			MailsTotal,
			WorkerQueueDepth,
		)
	})
}
