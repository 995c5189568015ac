package middleware

import (
	"context"
	"net/http"
	"strings"

	"task-management-backend/internal/models"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextKeyToken  = "token"
	ContextKeyUser   = "user"
	ContextKeyUserID = "userID"
	ContextKeyRole   = "role"
)

const (
	MsgTokenNotFound = "Unauthorized - Token not found"
	MsgUserNotFound  = "Unauthorized - User not found"
	MsgForbiddenRole = "Forbidden - User does not have the required role"
)

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware validates the bearer access token against the token store
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperror.CodeUnauthorized, MsgTokenNotFound)
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}

		c.Set(ContextKeyToken, token)
		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyRole, user.Role)

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireRole admits only users whose role is in roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperror.CodeUnauthorized, MsgUserNotFound)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, apperror.CodeForbidden, MsgForbiddenRole)
		c.Abort()
	}
}

// RequireAdmin checks if the authenticated user has admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// CurrentToken returns the bearer token stored by AuthMiddleware
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
