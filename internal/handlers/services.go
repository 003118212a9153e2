package handlers

import (
	"net/http"
	"strings"

	"itam-backend/internal/inventory"
	"itam-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// СЕРВИСНЫЕ ЗАЯВКИ

func (h *Handler) ListServices(c *gin.Context) {
	pr, err := pageRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.Services.List(c.Request.Context(), inventory.ServiceFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		PageRequest: pr,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	sh, err := h.Services.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

func (h *Handler) CreateService(c *gin.Context) {
	var in inventory.ServiceInput
	if !bindJSON(c, &in) {
		return
	}
	sh, err := h.Services.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sh)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var patch inventory.ServicePatch
	if !bindJSON(c, &patch) {
		return
	}
	sh, err := h.Services.Update(c.Request.Context(), middleware.Actor(c), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}
