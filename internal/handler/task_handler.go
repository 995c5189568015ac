package handler

import (
	"net/http"

	"task-management-backend/internal/service"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type TaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	StatusID    uint   `json:"statusId" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
}

type ShareTaskRequest struct {
	TaskID uint `json:"taskId" binding:"required"`
	UserID uint `json:"userId" binding:"required"`
}

type MoveTaskRequest struct {
	StatusID uint `json:"statusId" binding:"required"`
}

type TaskFilterQuery struct {
	StatusID   uint   `form:"statusId"`
	DueDate    string `form:"dueDate"`
	AssigneeID uint   `form:"assigneeId"`
	Shared     uint   `form:"shared"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sortBy" binding:"omitempty,oneof=createdAt dueDate title"`
	Order      string `form:"order" binding:"omitempty,oneof=ASC DESC asc desc"`
}

func (h *TaskHandler) bindTask(c *gin.Context) (service.TaskInput, bool) {
	var req TaskRequest
	if !bindJSON(c, &req) {
		return service.TaskInput{}, false
	}
	dueDate, ok := dateField(c, "dueDate", req.DueDate)
	if !ok {
		return service.TaskInput{}, false
	}
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.StatusID,
		DueDate:     dueDate,
	}, true
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := h.bindTask(c)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusCreated, "Task created successfully", task)
}

// GetTasks lists every task
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Tasks Retrieved Successfully", tasks)
}

// GetTask retrieves a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Tasks Retrieved Successfully", task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "task")
	if !ok {
		return
	}
	input, ok := h.bindTask(c)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, input, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Task updated successfully", task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), id, user.ID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.MessageResponse(c, "Task deleted successfully")
}

func (h *TaskHandler) ShareTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ShareTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	share, err := h.taskService.ShareTask(c.Request.Context(), req.TaskID, req.UserID, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusCreated, "Task shared successfully", share)
}

// MoveTask changes a task's status. Access is checked by CheckTaskAccess.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "task")
	if !ok {
		return
	}
	var req MoveTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), id, req.StatusID, user.ID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Task Moved successfully", task)
}

// GetTasksGrouped lists tasks keyed by status name
func (h *TaskHandler) GetTasksGrouped(c *gin.Context) {
	grouped, err := h.taskService.GroupByStatus(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Tasks Retrieved Successfully", grouped)
}

// GetTasksFiltered lists one page of tasks matching the query string
func (h *TaskHandler) GetTasksFiltered(c *gin.Context) {
	var q TaskFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeValidation, utils.ValidationMessage(err))
		return
	}

	query := service.TaskQuery{
		StatusID:   q.StatusID,
		AssigneeID: q.AssigneeID,
		SharedWith: q.Shared,
		Page:       q.Page,
		Limit:      q.Limit,
		SortBy:     q.SortBy,
		Order:      q.Order,
	}
	if q.DueDate != "" {
		dueDate, ok := dateField(c, "dueDate", q.DueDate)
		if !ok {
			return
		}
		query.DueDate = &dueDate
	}

	page, err := h.taskService.FilterTasks(c.Request.Context(), query)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, http.StatusOK, "Tasks Retrieved Successfully", page)
}
