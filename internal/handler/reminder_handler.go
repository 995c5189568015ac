package handler

import (
	"net/http"
	"time"

	"task-management-backend/internal/service"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

type CreateReminderRequest struct {
	TaskID       uint   `json:"taskId" binding:"required"`
	ReminderDate string `json:"reminderDate" binding:"required"`
}

type UpdateReminderRequest struct {
	TaskID       uint   `json:"taskId"`
	ReminderDate string `json:"reminderDate"`
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	reminderDate, ok := dateField(c, "reminderDate", req.ReminderDate)
	if !ok {
		return
	}

	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), req.TaskID, reminderDate, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusCreated, "Reminder created successfully", reminder)
}

func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "reminder")
	if !ok {
		return
	}
	var req UpdateReminderRequest
	if !bindJSON(c, &req) {
		return
	}

	var reminderDate *time.Time
	if req.ReminderDate != "" {
		parsed, ok := dateField(c, "reminderDate", req.ReminderDate)
		if !ok {
			return
		}
		reminderDate = &parsed
	}

	reminder, err := h.reminderService.UpdateReminder(c.Request.Context(), id, req.TaskID, reminderDate, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Reminder updated successfully", reminder)
}
