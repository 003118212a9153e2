package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"itam-backend/internal/apperr"
	"itam-backend/internal/inventory"
	"itam-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// СПИСОК АКТИВОВ

func (h *Handler) ListAssets(c *gin.Context) {
	pr, err := pageRequest(c)
	if err != nil {
		fail(c, err)
		return
	}

	f := inventory.AssetFilter{
		TypeCode:     strings.TrimSpace(c.Query("type_code")),
		CategoryCode: strings.TrimSpace(c.Query("category_code")),
		Search:       strings.TrimSpace(c.Query("search")),
		PageRequest:  pr,
	}
	if raw := c.Query("school_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			fail(c, apperr.New(apperr.InvalidInput, "school_id: must be a positive integer"))
			return
		}
		f.SchoolID = uint(id)
	}

	page, err := h.Assets.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	asset, err := h.Assets.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) GetAssetByBarcode(c *gin.Context) {
	asset, err := h.Assets.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// СОЗДАНИЕ / РЕДАКТИРОВАНИЕ / УДАЛЕНИЕ (только admin, см. auth.Policy)

func (h *Handler) CreateAsset(c *gin.Context) {
	var in inventory.AssetInput
	if !bindJSON(c, &in) {
		return
	}
	asset, err := h.Assets.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var patch inventory.AssetPatch
	if !bindJSON(c, &patch) {
		return
	}
	asset, err := h.Assets.Update(c.Request.Context(), middleware.Actor(c), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	asset, err := h.Assets.Delete(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ИМПОРТ ИЗ EXCEL

func (h *Handler) ImportAssets(c *gin.Context) {
	fh, err := formFile(c, h.ImportMaxBytes, "spreadsheet")
	if err != nil {
		fail(c, err)
		return
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".xlsx" {
		fail(c, apperr.New(apperr.InvalidInput, "file: only .xlsx spreadsheets are supported"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, apperr.Wrap(apperr.InvalidInput, "file: cannot open upload", err))
		return
	}
	defer f.Close()

	res, err := h.Importer.Import(c.Request.Context(), middleware.Actor(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
