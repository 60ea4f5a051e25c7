// Package metrics exposes the service's Prometheus instrumentation: HTTP
// request counts and latencies, batch upload and per-row render outcomes,
// and retention sweep results. A single Collector owns a private registry
// and serves it on the scrape endpoint; recording is a no-op when metrics
// are disabled.
package metrics
