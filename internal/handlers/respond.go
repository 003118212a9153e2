package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"itam-backend/internal/apperr"
	"itam-backend/internal/inventory"
	"itam-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// fail: единая точка выдачи ошибок клиенту
func fail(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.InvalidInput, "%s: must be a positive integer", name)
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Newf(apperr.InvalidInput, "%s: must be an integer", name)
	}
	return v, nil
}

// pageRequest reads page, size, sort_by and sort_order. Defaults are applied by the stores.
func pageRequest(c *gin.Context) (inventory.PageRequest, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return inventory.PageRequest{}, err
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return inventory.PageRequest{}, err
	}
	return inventory.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}, nil
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidInput, "invalid request body", err))
		return false
	}
	return true
}

// multipartSlack leaves room for boundaries and part headers around the file itself.
const multipartSlack = 64 << 10

// formFile reads the "file" part. With a positive limit the request body is
// capped before parsing, so oversized uploads are never buffered in full.
func formFile(c *gin.Context, limit int64, what string) (*multipart.FileHeader, error) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, apperr.Newf(apperr.InvalidInput, "file: exceeds %d bytes", limit)
		}
		return nil, apperr.Wrap(apperr.InvalidInput, "file: "+what+" upload is required", err)
	}
	if limit > 0 && fh.Size > limit {
		return nil, apperr.Newf(apperr.InvalidInput, "file: exceeds %d bytes", limit)
	}
	return fh, nil
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
