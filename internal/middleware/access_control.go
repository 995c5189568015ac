package middleware

import (
	"context"
	"net/http"
	"strconv"

	"task-management-backend/internal/models"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TaskAccessChecker decides whether a user may act on a task
type TaskAccessChecker interface {
	CanAccessTask(ctx context.Context, taskID uint, user *models.User) (bool, error)
}

// AccessControlMiddleware provides task-level access control
type AccessControlMiddleware struct {
	checker TaskAccessChecker
}

// NewAccessControlMiddleware creates a new access control middleware
func NewAccessControlMiddleware(checker TaskAccessChecker) *AccessControlMiddleware {
	return &AccessControlMiddleware{checker: checker}
}

// CheckTaskAccess admits admins, the task owner and users the task is shared with.
// Expected path parameter: :id
func (m *AccessControlMiddleware) CheckTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperror.CodeUnauthorized, MsgUserNotFound)
			c.Abort()
			return
		}

		taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid task ID")
			c.Abort()
			return
		}

		allowed, err := m.checker.CanAccessTask(c.Request.Context(), uint(taskID), user)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusForbidden, apperror.CodeForbidden, MsgForbiddenRole)
			c.Abort()
			return
		}

		c.Next()
	}
}
