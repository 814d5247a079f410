package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/service"
)

const claimsKey = "claims"

// AuthMiddleware validates JWT tokens and stores the caller's claims in the
// request context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			log.Printf("[Auth] Rejected token - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAny passes callers matching a role or permission requirement.
// The 403 body never discloses which requirement was missed.
func RequireAny(permService service.PermissionService, req service.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		if !permService.Check(claims, req) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission passes callers holding any of the given permission codes
func RequirePermission(permService service.PermissionService, codes ...string) gin.HandlerFunc {
	return RequireAny(permService, service.Requirement{Permissions: codes})
}

// RequireRole passes callers holding any of the given roles
func RequireRole(permService service.PermissionService, roles ...string) gin.HandlerFunc {
	return RequireAny(permService, service.Requirement{Roles: roles})
}

// RequestLogger logs all incoming requests with details
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		log.Printf("[HTTP] %s %s %d - %v", method, path, status, duration)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("[HTTP] Error: %v", e.Err)
			}
		}
	}
}

// GetClaims extracts the caller's claims from gin context, nil when absent
func GetClaims(c *gin.Context) *service.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireClaims returns the caller's claims or writes a 401
func RequireClaims(c *gin.Context) (*service.Claims, bool) {
	claims := GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return claims, true
}
