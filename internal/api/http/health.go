package http

import (
	"net/http"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ServiceInfo describes the configured inference setup
type ServiceInfo struct {
	Provider string `json:"provider"`
	Binding  string `json:"binding"`
	Model    string `json:"model"`
	Profile  string `json:"profile"`
}

// HealthHandler reports service status
type HealthHandler struct {
	info    ServiceInfo
	source  dream.BindingSource
	metrics *monitoring.Metrics
}

// NewHealthHandler creates a health handler
func NewHealthHandler(info ServiceInfo, source dream.BindingSource, metrics *monitoring.Metrics) *HealthHandler {
	return &HealthHandler{info: info, source: source, metrics: metrics}
}

// Health handles detailed health check
func (h *HealthHandler) Health(c *gin.Context) {
	binding := gin.H{"available": true}
	if _, err := h.source.Binding(h.info.Binding); err != nil {
		binding = gin.H{"available": false, "error": err.Error()}
	}

	body := gin.H{
		"status":    "healthy",
		"service":   "dreamscope",
		"version":   Version,
		"inference": h.info,
		"binding":   binding,
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}

	c.JSON(http.StatusOK, body)
}
