package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClimateAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tireswap_climate_api_calls_total",
			Help: "Total upstream climate data API calls",
		},
		[]string{"endpoint", "status"},
	)

	ClimateAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tireswap_climate_api_latency_seconds",
			Help:    "Upstream climate API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ObservationsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tireswap_observations_parsed_total",
			Help: "Total daily observations parsed from upstream CSV",
		},
		[]string{"station"},
	)

	StationsRefreshed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tireswap_stations_refreshed_total",
			Help: "Stations processed during refresh, by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tireswap_recommendations_served_total",
			Help: "Recommendations served by the query API",
		},
		[]string{"status"},
	)
)
