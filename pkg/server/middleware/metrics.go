package middleware

import (
	"net/http"
	"time"

	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

// Metrics records request counts and latencies under a fixed route label.
// The label is supplied at registration rather than taken from the URL, so
// metric cardinality stays bounded by the route table.
func Metrics(collector *metrics.Collector, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			collector.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
