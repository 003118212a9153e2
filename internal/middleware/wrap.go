package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WrapHTTP adapts net/http middleware (cors, httprate) to gin. When the wrapped
// middleware answers on its own, the rest of the chain is skipped.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
