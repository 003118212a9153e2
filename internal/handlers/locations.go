package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ЛОКАЦИИ: области и школы, открыты без авторизации

func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.Directory.ListAreas(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

func (h *Handler) GetArea(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	area, err := h.Directory.GetArea(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, area)
}

func (h *Handler) ListAreaSchools(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	schools, err := h.Directory.ListSchools(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

func (h *Handler) GetSchool(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	school, err := h.Directory.GetSchool(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, school)
}
