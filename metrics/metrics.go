// Package metrics defines the Prometheus metrics exposed on /metrics. It is
// the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pothole"

// ReportsCreatedTotal counts persisted reports, by severity.
var ReportsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_created_total",
		Help:      "Total number of pothole reports created, by severity.",
	},
	[]string{"severity"},
)

// CommentsCreatedTotal counts persisted comments.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// VotesCastTotal counts accepted votes, by direction. A replaced vote still
// counts as a cast.
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes cast, by vote type.",
	},
	[]string{"vote_type"},
)

// ImagesAnalyzedTotal counts analyze-image requests that produced a stored
// upload, labelled by whether detection yielded anything.
var ImagesAnalyzedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_analyzed_total",
		Help:      "Total number of analyzed uploads, by detection outcome (hit/miss/error).",
	},
	[]string{"outcome"},
)

// DetectionDuration measures the external detection call.
var DetectionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "detection_duration_seconds",
		Help:      "Duration of calls to the external detection service.",
		Buckets:   prometheus.DefBuckets,
	},
)

// WebsocketClients tracks currently connected realtime subscribers.
var WebsocketClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of currently connected websocket clients.",
	},
)

// EventsBroadcastTotal counts events fanned out to subscribers, by kind.
var EventsBroadcastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_broadcast_total",
		Help:      "Total number of realtime events broadcast, by event kind.",
	},
	[]string{"event"},
)
