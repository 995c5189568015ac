package handler

import (
	"net/http"

	"task-management-backend/internal/service"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SubTaskHandler struct {
	subTaskService *service.SubTaskService
}

func NewSubTaskHandler(subTaskService *service.SubTaskService) *SubTaskHandler {
	return &SubTaskHandler{
		subTaskService: subTaskService,
	}
}

type SubTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	StatusID    uint   `json:"statusId" binding:"required"`
	TaskID      uint   `json:"taskId" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
}

type SubTaskStatusRequest struct {
	StatusID uint `json:"statusId" binding:"required"`
}

type SubTaskDueDateRequest struct {
	DueDate string `json:"dueDate" binding:"required"`
}

func (h *SubTaskHandler) CreateSubTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req SubTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	dueDate, ok := dateField(c, "dueDate", req.DueDate)
	if !ok {
		return
	}

	subTask, err := h.subTaskService.CreateSubTask(c.Request.Context(), service.SubTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.StatusID,
		TaskID:      req.TaskID,
		DueDate:     dueDate,
	}, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusCreated, "Subtask created successfully", subTask)
}

func (h *SubTaskHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "subtask")
	if !ok {
		return
	}
	var req SubTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	subTask, err := h.subTaskService.UpdateStatus(c.Request.Context(), id, req.StatusID, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Task status updated successfully", subTask)
}

func (h *SubTaskHandler) UpdateDueDate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "subtask")
	if !ok {
		return
	}
	var req SubTaskDueDateRequest
	if !bindJSON(c, &req) {
		return
	}
	dueDate, ok := dateField(c, "dueDate", req.DueDate)
	if !ok {
		return
	}

	subTask, err := h.subTaskService.UpdateDueDate(c.Request.Context(), id, dueDate, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Task due date updated successfully", subTask)
}
