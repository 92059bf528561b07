package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ctxUserKey   = "user"
	ctxUserIDKey = "user_id"
)

// AuthMiddleware validates the access token and attaches the resolved user
// to the request context. The accessToken cookie takes precedence over the
// Authorization header. It is a pure gate; the attached identity is its only
// effect.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "Access token is required")
			return
		}

		user, err := authService.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxUserIDKey, user.ID)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewResponse(http.StatusUnauthorized, message, nil))
	c.Abort()
}

// currentUser returns the identity attached by AuthMiddleware.
func currentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(ctxUserKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*domain.User)
	return user, ok
}
