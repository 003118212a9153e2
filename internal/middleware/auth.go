package middleware

import (
	"context"
	"fmt"
	"strings"

	"itam-backend/internal/auth"
	"itam-backend/internal/inventory"
	"itam-backend/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserID = "user_id"
	SessionRole   = "role"

	currentUserKey = "CurrentUser"
)

type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// Gate enforces the policy rule for op. It panics when op has no rule so that a
// route can never be mounted without one.
func Gate(resolver Resolver, op auth.Operation) gin.HandlerFunc {
	rule, ok := auth.RuleFor(op)
	if !ok {
		panic(fmt.Sprintf("middleware: no access rule for operation %q", op))
	}

	return func(c *gin.Context) {
		if rule.Public {
			c.Next()
			return
		}

		user, err := identify(c, resolver)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := auth.Authorize(op, user); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// identify prefers the bearer token; the session cookie is the fallback for browser logins.
func identify(c *gin.Context, resolver Resolver) (*models.User, error) {
	ctx := c.Request.Context()

	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "bearer") {
			token = ""
		}
		return resolver.Resolve(ctx, strings.TrimSpace(token))
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
		return resolver.UserByID(ctx, uid)
	}
	return nil, nil
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// Actor is the audit identity of the request, "system" when nobody is signed in.
func Actor(c *gin.Context) inventory.Actor {
	if u, ok := CurrentUser(c); ok {
		return inventory.ActorFromUser(*u)
	}
	return inventory.Actor{Name: "system"}
}
