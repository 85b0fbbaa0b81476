package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID uuid.UUID   `json:"userId"`
	Role   models.Role `json:"role"`
}

// IsAdmin reports whether the token carries the admin role
func (u UserContext) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// abortWithError writes the error envelope used across the API and stops the chain
func abortWithError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"error":     message,
		"code":      code,
		"timestamp": time.Now().UTC(),
	})
}

// AuthMiddleware creates a middleware that validates JWT bearer tokens
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("AUTH FAILED: Missing authorization header")
			abortWithError(c, http.StatusUnauthorized, "No token provided", "MISSING_AUTH_HEADER")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			log.Debug("AUTH FAILED: Invalid auth format")
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.WithError(err).Debug("AUTH FAILED: Token expired")
				abortWithError(c, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
			} else {
				log.WithError(err).Warn("AUTH FAILED: Invalid token")
				abortWithError(c, http.StatusUnauthorized, "Invalid token", "INVALID_TOKEN")
			}
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID: claims.UserID,
			Role:   models.Role(claims.Role),
		})
		c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			abortWithError(c, http.StatusUnauthorized, "User context not found", "MISSING_USER_CONTEXT")
			return
		}

		if !userCtx.IsAdmin() {
			abortWithError(c, http.StatusForbidden, "Access denied: Admin only", "INSUFFICIENT_PERMISSIONS")
			return
		}

		c.Next()
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
