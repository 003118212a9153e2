package handlers

import (
	"net/http"
	"strings"

	"itam-backend/internal/inventory"

	"github.com/gin-gonic/gin"
)

// ЖУРНАЛ ИЗМЕНЕНИЙ

func (h *Handler) ListLogs(c *gin.Context) {
	pr, err := pageRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.Logs.List(c.Request.Context(), inventory.LogFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		Action:      strings.TrimSpace(c.Query("action")),
		PageRequest: pr,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
