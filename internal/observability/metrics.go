package observability

import (
	"errors"
	"time"

	"mingle/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostInteractions counts like, dislike, comment and delete attempts by outcome.
	PostInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_post_interactions_total",
		Help: "Total number of post interactions by kind and outcome",
	}, []string{"kind", "outcome"})

	// PostsCreated counts successfully created posts by topic.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_posts_created_total",
		Help: "Total number of posts created, labelled once per topic",
	}, []string{"topic"})

	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mingle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordInteraction increments PostInteractions with an outcome derived from err.
func RecordInteraction(kind string, err error) {
	PostInteractions.WithLabelValues(kind, Outcome(err)).Inc()
}

// Outcome classifies an interaction error for metric labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrSelfInteraction):
		return "self"
	case errors.Is(err, models.ErrPostExpired):
		return "expired"
	case errors.Is(err, models.ErrDuplicateInteraction), errors.Is(err, models.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, models.ErrNotAuthor):
		return "not_author"
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			return "not_found"
		case models.CodeValidation:
			return "invalid"
		case models.CodeUnauthorized:
			return "unauthorized"
		}
	}
	return "error"
}
