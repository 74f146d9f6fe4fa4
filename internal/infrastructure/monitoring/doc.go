/*
Package monitoring provides Prometheus metrics for the dream analysis service.

# Overview

Every Metrics value owns a private prometheus.Registry, so several servers
(or tests) can live in one process without duplicate registration panics.

# Features

- HTTP request metrics (latency, throughput, size), labelled by route template
- Inference binding metrics (calls, latency, errors per binding and model)
- Analysis outcomes (success, fallback, rejected, failed)
- Accepted prompt length distribution
- Uptime gauge
- JSON snapshot for the health endpoint

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "AI", model)
	// ... call the binding ...
	timer.Stop("success")
*/
package monitoring
