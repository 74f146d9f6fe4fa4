// Package server wires configuration, bindings, middleware and handlers
// into the dream analysis HTTP server.
//
// Routes:
//   - ANALYZE_PATH (any method): dream analysis
//   - GET /health: provider status and metrics snapshot
//   - GET /metrics: Prometheus exposition
//
// Middleware order: CORS, recovery, tracing, metrics.
package server
