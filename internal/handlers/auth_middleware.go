package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/auth"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/services"
)

// JWTAuthMiddleware authenticates requests with locally issued tokens.
type JWTAuthMiddleware struct {
	tokens      *auth.TokenManager
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewJWTAuthMiddleware(tokens *auth.TokenManager, authService services.AuthService, userRepo repositories.UserRepository) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		tokens:      tokens,
		authService: authService,
		userRepo:    userRepo,
	}
}

// AuthMiddleware validates the bearer token, rejects revoked sessions and
// loads the user fresh from the store. Role checks run against the stored
// flag, not the token claim, so demotions take effect immediately.
func (am *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header missing"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := am.tokens.Parse(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		revoked, err := am.authService.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Session has been logged out"})
			c.Abort()
			return
		}

		user, err := am.userRepo.GetByID(c.Request.Context(), nil, claims.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User no longer exists"})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role())
		c.Set("token_id", claims.ID)
		c.Set("token_expires_at", claims.ExpiresAt.Time)

		c.Next()
	}
}

// RequireRoleMiddleware allows only the named roles. Unlike typical admin
// overrides, roles here are exclusive: an admin cannot pass a user-only
// gate, attempts belong to regular users.
func (am *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "User role not found in context"})
			c.Abort()
			return
		}

		role, ok := value.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Invalid user role format"})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		c.Abort()
	}
}
