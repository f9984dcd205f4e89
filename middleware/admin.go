package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/respond"
)

// RequireAdmin lets a request through only when Authorize left claims of an
// admin account on the context. It must run after Authorize.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !claims.IsAdmin {
			respond.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
