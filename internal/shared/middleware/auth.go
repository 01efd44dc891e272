package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cms-backend/internal/shared/response"
	"cms-backend/pkg/jwt"
)

const (
	// ContextUserID is the gin context key for the authenticated user's id.
	ContextUserID = "userID"
	// ContextUsername is the gin context key for the authenticated username.
	ContextUsername = "username"
	// ContextRole is the gin context key for the authenticated role.
	ContextRole = "role"

	// RoleAuthor is required for all content-writing endpoints.
	RoleAuthor = "author"
)

// AuthRequired verifies the bearer token and requires the author role.
// The lifecycle layer trusts the (id, role) pair set here without
// re-validating the credential.
func AuthRequired(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtManager)
		if !ok {
			c.Abort()
			return
		}

		if claims.Role != RoleAuthor {
			response.Forbidden(c, "Author role required")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user id in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func parseBearer(c *gin.Context, jwtManager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "Authentication required")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, "Invalid authorization header format")
		return nil, false
	}

	claims, err := jwtManager.ValidateToken(parts[1])
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ContextUserID).(uuid.UUID)
	return id
}
