package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionAuth resolves the bearer token, if any, into a Session. Requests
// without a token continue as anonymous; a bad token is rejected.
func SessionAuth(iss *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Set(sessionKey, AnonymousSession())
			c.Next()
			return
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		s, err := iss.Parse(strings.TrimSpace(authz[len("bearer "):]))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequireUser lets through any logged-in session, admins included.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !FromContext(c).IsAuthenticated() {
			abort(c, http.StatusUnauthorized, "login required")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := FromContext(c)
		if !s.IsAuthenticated() {
			abort(c, http.StatusUnauthorized, "login required")
			return
		}
		if !s.IsAdmin() {
			abort(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

// FromContext returns the request session, anonymous if none was set.
func FromContext(c *gin.Context) Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return AnonymousSession()
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
