package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Time taken to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	OwnershipDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_ownership_denials_total",
		Help: "Mutations refused because the principal is not the author",
	}, []string{"resource", "action"})

	HiddenPostLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_hidden_post_lookups_total",
		Help: "Post detail lookups answered with not-found because the post is hidden",
	})
)
