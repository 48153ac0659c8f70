package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MongoLatency is the duration of Mongo queries per DAL and query.
	MongoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "karma_dataaccess_mongo_latency",
			Help: "Duration of Mongo queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// MongoTotalRequests is the total number of Mongo requests per DAL and query.
	MongoTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "karma_dataaccess_mongo_total_requests",
			Help: "Total number of Mongo requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)
)
