package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics starts a best-effort background HTTP server exposing
// /metrics on addr. A run that requests metrics cares about having
// them scraped during its lifetime, not about the server outliving
// the process, so failures are silent rather than fatal to the run.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
