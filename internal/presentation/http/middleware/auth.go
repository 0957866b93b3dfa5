package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	infraRepo "github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-commission-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware. A token bound to a
// branch restricts every repository read of the request to that branch.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_roles", claims.Roles)
		c.Set("user_permissions", claims.Permissions)

		if claims.BranchID != nil && *claims.BranchID != uuid.Nil {
			c.Set("branch_id", *claims.BranchID)
			c.Request = c.Request.WithContext(infraRepo.WithBranch(c.Request.Context(), *claims.BranchID))
		}

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !contains(stringsFromContext(c, "user_permissions"), permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles := stringsFromContext(c, "user_roles")
		for _, role := range roles {
			if contains(userRoles, role) {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// GetUserID retrieves the authenticated user's ID from gin context
func GetUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetBranchID retrieves the caller's branch restriction. Head-office callers
// have none.
func GetBranchID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("branch_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func stringsFromContext(c *gin.Context, key string) []string {
	v, exists := c.Get(key)
	if !exists {
		return nil
	}
	list, _ := v.([]string)
	return list
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
