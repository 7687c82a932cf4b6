package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/users"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "user_role"
)

// WithUser validates the bearer token, loads the account and stores the
// user id and role in the gin context. Disabled accounts are rejected
// even with a valid token.
func WithUser(issuer *TokenIssuer, userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization token"})
			return
		}

		userID, _, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		u, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil || u.Status != users.StatusActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxRole, string(u.Role))
		c.Next()
	}
}

// RequireAdmin gates admin routes. It must run after WithUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != string(users.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin role required"})
			return
		}
		c.Next()
	}
}

// UserID extracts the authenticated user's id from the gin context.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// Role extracts the authenticated user's role from the gin context.
func Role(c *gin.Context) string {
	return c.GetString(CtxRole)
}

// IsAdmin reports whether the request is from an administrator.
func IsAdmin(c *gin.Context) bool {
	return Role(c) == string(users.RoleAdmin)
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
