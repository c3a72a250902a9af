package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voice2ticket/internal/observability"
)

// MetricsHandler exposes the in-memory request, error and sweep counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler returns a new handler instance.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot handles GET /metrics.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
