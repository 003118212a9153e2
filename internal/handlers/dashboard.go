package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
