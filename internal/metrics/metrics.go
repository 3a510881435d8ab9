// Package metrics exposes Prometheus collectors for the record store,
// the identity adapter and the RPC layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalmanager_store_operations_total",
		Help: "Record store operations by collection, operation and result",
	}, []string{"collection", "op", "result"})

	storeRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rentalmanager_store_records",
		Help: "Number of records in a collection as of the last full load",
	}, []string{"collection"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalmanager_auth_attempts_total",
		Help: "Identity provider calls by operation and result code",
	}, []string{"op", "result"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentalmanager_rpc_duration_seconds",
		Help:    "Duration of RPC calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// ObserveStoreOp records one record store operation. result is "ok",
// "miss" (no matching id) or "error".
func ObserveStoreOp(collection, op, result string) {
	storeOperations.WithLabelValues(collection, op, result).Inc()
}

// SetRecordCount records the size of a collection.
func SetRecordCount(collection string, n int) {
	storeRecords.WithLabelValues(collection).Set(float64(n))
}

// ObserveAuth records an identity operation outcome.
func ObserveAuth(op, result string) {
	authAttempts.WithLabelValues(op, result).Inc()
}

// ObserveRPC records an RPC call.
func ObserveRPC(procedure, code string, duration time.Duration) {
	rpcDuration.WithLabelValues(procedure, code).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
