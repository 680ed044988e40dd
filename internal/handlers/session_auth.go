package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/snackshop-service/internal/cache"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

// sessionCookieName is the fallback token carrier for browser clients
const sessionCookieName = "session_token"

// SessionAuthMiddleware authenticates requests against the opaque-token
// session store
type SessionAuthMiddleware struct {
	sessions *cache.SessionStore
	logger   utils.Logger
}

// NewSessionAuthMiddleware creates a new session authentication middleware
func NewSessionAuthMiddleware(sessions *cache.SessionStore, logger utils.Logger) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// AuthMiddleware returns a Gin middleware that requires a valid session
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		session, err := sam.sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired session",
			})
			c.Abort()
			return
		}

		// Sliding expiry; a failed refresh never fails the request
		if err := sam.sessions.Refresh(c.Request.Context(), token); err != nil {
			sam.logger.Warn("Failed to refresh session", "error", err)
		}

		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)
		c.Set("user_role", session.Role)
		c.Set("session_token", token)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the session if a token is present, but
// never rejects the request
func (sam *SessionAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := sam.sessions.Get(c.Request.Context(), token)
		if err == nil {
			c.Set("user_id", session.UserID)
			c.Set("username", session.Username)
			c.Set("user_role", session.Role)
			c.Set("session_token", token)
		}

		c.Next()
	}
}

// RequireRoleMiddleware checks if the user has one of the required roles.
// Admins always pass.
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "User role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Invalid user role format",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole || role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: fmt.Sprintf("Insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractToken pulls the session token from the Authorization header or,
// failing that, the session cookie
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		return cookie
	}

	return ""
}

// GetUserIDFromContext extracts the authenticated user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts the authenticated user's role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}

// GetSessionTokenFromContext extracts the raw session token from Gin context
func GetSessionTokenFromContext(c *gin.Context) (string, error) {
	token, exists := c.Get("session_token")
	if !exists {
		return "", fmt.Errorf("session token not found in context")
	}

	raw, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("invalid session token type in context")
	}

	return raw, nil
}

// IsAdminFromContext reports whether the current session belongs to an admin
func IsAdminFromContext(c *gin.Context) bool {
	role, err := GetUserRoleFromContext(c)
	return err == nil && role == models.RoleAdmin
}
