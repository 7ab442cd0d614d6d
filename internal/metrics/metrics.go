package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "foodie"

var (
	FeedCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed_cache",
		Name:      "hits_total",
		Help:      "Feed reads served from the cache.",
	})
	FeedCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed_cache",
		Name:      "misses_total",
		Help:      "Feed reads that recomputed the feed from the database.",
	})
	FeedCacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed_cache",
		Name:      "invalidations_total",
		Help:      "Feed cache invalidations after post writes.",
	})
	FeedCacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed_cache",
		Name:      "errors_total",
		Help:      "Feed cache backend failures by operation.",
	}, []string{"op"})

	ProxyCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "proxy",
		Name:      "calls_total",
		Help:      "Calls to third-party APIs by upstream and outcome.",
	}, []string{"upstream", "outcome"})

	PostEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Post events handed to the publisher by type and outcome.",
	}, []string{"type", "outcome"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "rejected_total",
		Help:      "Requests rejected by the per-IP limiter.",
	}, []string{"route"})
)
