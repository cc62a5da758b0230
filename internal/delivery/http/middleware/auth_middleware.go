package middleware

import (
	"strings"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/auth"
	"thinqor-ats/pkg/logger"

	"github.com/gin-gonic/gin"
)

const AuthCookieName = "auth_token"

// OptionalAuth resolves the caller from a Bearer header or the auth_token cookie. A missing or
// invalid token leaves the request anonymous; it never aborts.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString != "" && secret != "" {
			id, err := auth.ParseToken(secret, tokenString)
			if err != nil {
				logger.Log.Debug("Ignoring console token", "error", err)
			} else {
				c.Set(string(domain.KeyUserID), id.UserID)
				c.Set(string(domain.KeyUserRole), id.Role)
			}
		}

		c.Next()
	}
}

// CurrentUser returns the identity set by OptionalAuth.
func CurrentUser(c *gin.Context) (int64, string, bool) {
	id, ok := c.Get(string(domain.KeyUserID))
	if !ok {
		return 0, "", false
	}
	return id.(int64), c.GetString(string(domain.KeyUserRole)), true
}
