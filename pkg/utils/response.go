package utils

import (
	"net/http"

	"task-management-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// SuccessResponse sends a standard success JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	CreatedResponse(c, http.StatusOK, "", data)
}

// CreatedResponse sends a success JSON response with an explicit status and message
func CreatedResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(statusCode, body)
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, code string, message string) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if code != "" {
		body["code"] = code
	}
	c.JSON(statusCode, body)
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// AppErrorResponse writes err as an error response and aborts the chain.
// Untyped errors become 500; 5xx causes are attached to the context for the request logger.
func AppErrorResponse(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message)
	c.Abort()
}
