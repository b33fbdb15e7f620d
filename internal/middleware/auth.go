package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
)

const ContextActor = "actor"

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Actor, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate verifies the bearer token and stores the actor in the request context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, errors.Unauthenticated("missing authorization header"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, errors.Unauthenticated("invalid authorization format"))
			return
		}

		actor, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abort(c, errors.Unauthenticated("invalid token"))
			return
		}

		c.Set(ContextActor, actor)
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequireAdmin lets only ROLE_ADMIN callers through
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.ActorFromContext(c.Request.Context()).IsAdmin() {
			abort(c, errors.PermissionDenied("admin authority required"))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
