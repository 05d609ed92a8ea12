package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusd/backend/internal/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	overview, apiErr := h.stats.Overview(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, overview)
}
