package middleware

import (
	"itam-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AbortWithError writes the standard error envelope and stops the chain.
// Internal errors are logged with the cause but clients only see a generic message.
func AbortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{
		"error": errorBody{Code: kind.String(), Message: apperr.Message(err)},
	})
}
