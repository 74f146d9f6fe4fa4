package http

import (
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the Prometheus registry
type MetricsHandler struct {
	metrics *monitoring.Metrics
}

// NewMetricsHandler creates a metrics endpoint handler
func NewMetricsHandler(metrics *monitoring.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Serve writes the exposition format
func (h *MetricsHandler) Serve(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
