package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/domain/repository"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
	"github.com/devstack-id/fullstack-api/pkg/response"
)

const CtxCallerKey = "caller"

// Auth validates the Authorization bearer token and loads the caller from the
// database so role and active flags are always current. Handlers downstream
// receive a fully resolved *entity.User via Caller.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortErr(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortErr(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.AbortErr(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		if !u.IsActive {
			response.AbortErr(c, http.StatusBadRequest, "inactive user")
			return
		}
		c.Set(CtxCallerKey, u)
		c.Next()
	}
}

// RequireSuperuser must run after Auth.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := Caller(c)
		if u == nil || !u.IsSuperuser {
			response.AbortErr(c, http.StatusForbidden, "the user doesn't have enough privileges")
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated user placed by Auth, or nil.
func Caller(c *gin.Context) *entity.User {
	if v, ok := c.Get(CtxCallerKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
