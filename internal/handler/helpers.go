package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"task-management-backend/internal/middleware"
	"task-management-backend/internal/models"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the body, writing a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeValidation, utils.ValidationMessage(err))
		return false
	}
	return true
}

// parseID reads the :id path parameter, writing a 400 on failure
func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeValidation, fmt.Sprintf("Invalid %s ID", what))
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user, writing a 401 if it is missing
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, apperror.CodeUnauthorized, middleware.MsgUserNotFound)
		return nil, false
	}
	return user, true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain dates (UTC)
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func dateField(c *gin.Context, field, value string) (time.Time, bool) {
	t, err := parseDate(value)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeValidation,
			fmt.Sprintf("Validation error: %s must be a valid date", field))
		return time.Time{}, false
	}
	return t, true
}
