package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converter_cache_hits_total",
		Help: "Cache hits by tier (memory or store).",
	}, []string{"tier"})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "converter_cache_misses_total",
		Help: "Reads that fell through to the upstream API.",
	})

	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converter_api_fetches_total",
		Help: "Upstream API calls by endpoint.",
	}, []string{"endpoint"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "converter_api_fetch_failures_total",
		Help: "Failed upstream API calls by endpoint.",
	}, []string{"endpoint"})
)
