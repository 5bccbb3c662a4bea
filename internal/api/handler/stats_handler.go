package handler

import (
	"github.com/gin-gonic/gin"

	"simlab/internal/service"
	"simlab/pkg/response"
)

// StatsHandler dashboard endpoint
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler creates a StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Dashboard lab, course and schedule counters
// GET /api/v1/stats
func (h *StatsHandler) Dashboard(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	stats, err := h.statsSvc.Dashboard(c.Request.Context(), caller)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}
