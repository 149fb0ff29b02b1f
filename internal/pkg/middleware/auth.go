package middleware

import (
	"net/http"
	"strings"

	"storefront_api/pkg/response"
	"storefront_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Role values carried in the JWT role claim. Role resolution itself belongs
// to the identity collaborator; this service only reads the claim.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// AuthMiddleware requires a valid bearer token and stores claims in context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c)
		if err != "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, err)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware stores claims when a valid token is present but
// lets anonymous requests through. Checkout allows guest buyers.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, errMsg := claimsFromHeader(c); errMsg == "" && claims != nil {
			c.Set("userID", claims.UserID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

// AdminMiddleware requires the admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok || roleInt != RoleAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}

		c.Next()
	}
}

func claimsFromHeader(c *gin.Context) (*utils.Claims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authorization header is required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "Invalid authorization header format"
	}

	claims, err := utils.ParseToken(parts[1])
	if err != nil {
		return nil, "Invalid or expired token"
	}
	return claims, ""
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
