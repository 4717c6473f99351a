package handler

import (
	"net/http"

	"estate_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterMetricsRoutes mounts the performance endpoints. The caller decides
// which role guard wraps the group.
func (h *Handler) RegisterMetricsRoutes(rg *gin.RouterGroup) {
	rg.GET("/agents/:id", h.AgentMetrics)
	rg.GET("/team", h.TeamMetrics)
}

func (h *Handler) AgentMetrics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.metrics.AgentPerformance(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) TeamMetrics(c *gin.Context) {
	result, err := h.metrics.TeamPerformance(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
