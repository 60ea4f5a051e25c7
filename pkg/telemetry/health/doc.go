// Package health provides liveness and readiness probes for the HTTP server.
//
// Liveness (GET /health) only confirms the process is running. Readiness
// (GET /ready) runs the registered component checks, typically the artifact
// store's index, and reports 503 when any of them fail.
//
// Usage:
//
//	checker := health.New(0)
//	checker.RegisterCheck("index", func(ctx context.Context) error {
//		_, err := store.Count(ctx)
//		return err
//	})
//	mux.Handle("GET /health", checker.LivenessHandler())
//	mux.Handle("GET /ready", checker.ReadinessHandler())
package health
