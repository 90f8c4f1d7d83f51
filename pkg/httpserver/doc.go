// Package httpserver wraps net/http.Server with environment-driven
// configuration, graceful shutdown on SIGINT/SIGTERM or context
// cancellation, and a health check handler for liveness and readiness
// probes.
package httpserver
