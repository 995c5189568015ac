package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/pkg/apperror"

	"go.uber.org/zap"
)

// Cache keys of the memoized task lists
const (
	CacheKeyAllTasks      = "all_tasks"
	CacheKeyTasksByStatus = "tasks_by_status"
)

const (
	MsgTaskNotFound       = "Task not found"
	MsgInvalidStatusID    = "Invalid status ID"
	MsgForbiddenUpdate    = "Forbidden - You are not authorized to update this task"
	MsgForbiddenDelete    = "Forbidden - You are not authorized to delete this task"
	MsgTaskAlreadyShared  = "Task is already shared with this user."
	MsgNoStatusesFound    = "No statuses found"
	MsgNoSharedTasksFound = "No shared tasks found"
)

// ListCache memoizes list queries. A nil ListCache disables caching.
type ListCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetObject(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type TaskService struct {
	taskRepo   *repository.TaskRepository
	statusRepo *repository.StatusRepository
	shareRepo  *repository.TaskShareRepository
	userRepo   *repository.UserRepository
	auditRepo  *repository.AuditRepository
	cache      ListCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	statusRepo *repository.StatusRepository,
	shareRepo *repository.TaskShareRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
	cache ListCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		statusRepo: statusRepo,
		shareRepo:  shareRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// TaskInput carries the writable fields of a task
type TaskInput struct {
	Title       string
	Description string
	StatusID    uint
	DueDate     time.Time
}

// TaskQuery is the parsed query of the filtered task list
type TaskQuery struct {
	StatusID   uint
	DueDate    *time.Time
	AssigneeID uint
	SharedWith uint
	Page       int
	Limit      int
	SortBy     string
	Order      string
}

// TaskPage is one page of filtered tasks
type TaskPage struct {
	Tasks       []models.Task `json:"tasks"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	TotalTasks  int64         `json:"totalTasks"`
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"title":     "title",
}

// CreateTask creates a task owned by ownerID
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput, ownerID uint) (*models.Task, error) {
	if err := s.checkStatus(ctx, input.StatusID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		StatusID:    input.StatusID,
		UserID:      ownerID,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create task: %w", err))
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.auditRepo, s.logger, &ownerID, "task_create", fmt.Sprintf("Created task %d: %s", task.ID, task.Title))
	return task, nil
}

// ListTasks returns every task with its status and owner
func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if s.cacheGet(ctx, CacheKeyAllTasks, &tasks) {
		return tasks, nil
	}

	tasks, err := s.taskRepo.GetAllTasks(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list tasks: %w", err))
	}
	if len(tasks) == 0 {
		return nil, apperror.NotFound(MsgTaskNotFound)
	}

	s.cacheSet(ctx, CacheKeyAllTasks, tasks)
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, s.taskError(err)
	}
	return task, nil
}

// UpdateTask overwrites a task. Only the owner may update it.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, input TaskInput, userID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, s.taskError(err)
	}
	if task.UserID != userID {
		return nil, apperror.Forbidden(MsgForbiddenUpdate)
	}
	if err := s.checkStatus(ctx, input.StatusID); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.StatusID = input.StatusID
	task.DueDate = input.DueDate
	task.Status = nil
	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update task: %w", err))
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.auditRepo, s.logger, &userID, "task_update", fmt.Sprintf("Updated task %d", task.ID))
	return task, nil
}

// DeleteTask removes a task. Only the owner may delete it.
func (s *TaskService) DeleteTask(ctx context.Context, id uint, userID uint) error {
	task, err := s.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return s.taskError(err)
	}
	if task.UserID != userID {
		return apperror.Forbidden(MsgForbiddenDelete)
	}

	if err := s.taskRepo.DeleteTask(ctx, id); err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete task: %w", err))
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.auditRepo, s.logger, &userID, "task_delete", fmt.Sprintf("Deleted task %d", id))
	return nil
}

// ShareTask shares a task with another user
func (s *TaskService) ShareTask(ctx context.Context, taskID, targetUserID, actorID uint) (*models.TaskShare, error) {
	if _, err := s.taskRepo.GetTaskByID(ctx, taskID); err != nil {
		return nil, s.taskError(err)
	}

	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find user: %w", err))
	}

	share, err := s.shareRepo.ShareTask(ctx, taskID, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyShared) {
			return nil, apperror.Conflict(MsgTaskAlreadyShared)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to share task: %w", err))
	}

	recordAudit(ctx, s.auditRepo, s.logger, &actorID, "task_share", fmt.Sprintf("Shared task %d with user %d", taskID, targetUserID))
	return share, nil
}

// CanAccessTask reports whether the user is an admin, the owner, or an assignee of the task
func (s *TaskService) CanAccessTask(ctx context.Context, taskID uint, user *models.User) (bool, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return false, s.taskError(err)
	}
	if user.Role == models.RoleAdmin || task.UserID == user.ID {
		return true, nil
	}

	shared, err := s.shareRepo.IsShared(ctx, taskID, user.ID)
	if err != nil {
		return false, apperror.Internal(fmt.Errorf("failed to check task share: %w", err))
	}
	return shared, nil
}

// MoveTask changes the status of a task
func (s *TaskService) MoveTask(ctx context.Context, id, statusID, userID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, s.taskError(err)
	}
	if err := s.checkStatus(ctx, statusID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateTaskStatus(ctx, id, statusID); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to move task: %w", err))
	}
	task.StatusID = statusID
	task.Status = nil

	s.invalidate(ctx)
	recordAudit(ctx, s.auditRepo, s.logger, &userID, "task_move", fmt.Sprintf("Moved task %d to status %d", id, statusID))
	return task, nil
}

// GroupByStatus returns every status name mapped to its tasks
func (s *TaskService) GroupByStatus(ctx context.Context) (map[string][]models.Task, error) {
	grouped := map[string][]models.Task{}
	if s.cacheGet(ctx, CacheKeyTasksByStatus, &grouped) {
		return grouped, nil
	}

	statuses, err := s.statusRepo.GetAllStatuses(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list statuses: %w", err))
	}
	if len(statuses) == 0 {
		return nil, apperror.NotFound(MsgNoStatusesFound)
	}

	for _, status := range statuses {
		tasks, err := s.taskRepo.GetTasksByStatus(ctx, status.ID)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to list tasks for status %s: %w", status.Status, err))
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		grouped[status.Status] = tasks
	}

	s.cacheSet(ctx, CacheKeyTasksByStatus, grouped)
	return grouped, nil
}

// FilterTasks returns one page of tasks matching the query
func (s *TaskService) FilterTasks(ctx context.Context, q TaskQuery) (*TaskPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 4
	}

	column := "created_at"
	if q.SortBy != "" {
		c, ok := sortColumns[q.SortBy]
		if !ok {
			return nil, apperror.Validation("Validation error: sortBy must be one of createdAt, dueDate, title")
		}
		column = c
	}

	descending := true
	switch q.Order {
	case "", "DESC", "desc":
	case "ASC", "asc":
		descending = false
	default:
		return nil, apperror.Validation("Validation error: order must be one of ASC, DESC")
	}

	filter := repository.TaskFilter{
		StatusID:   q.StatusID,
		DueBefore:  q.DueDate,
		AssigneeID: q.AssigneeID,
		SortColumn: column,
		Descending: descending,
		Offset:     (q.Page - 1) * q.Limit,
		Limit:      q.Limit,
	}

	if q.SharedWith != 0 {
		ids, err := s.shareRepo.GetTaskIDsSharedWith(ctx, q.SharedWith)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to list shared tasks: %w", err))
		}
		if len(ids) == 0 {
			return nil, apperror.NotFound(MsgNoSharedTasksFound)
		}
		filter.TaskIDs = ids
	}

	tasks, total, err := s.taskRepo.FilterTasks(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to filter tasks: %w", err))
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return &TaskPage{
		Tasks:       tasks,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.Limit))),
		CurrentPage: q.Page,
		TotalTasks:  total,
	}, nil
}

func (s *TaskService) checkStatus(ctx context.Context, statusID uint) error {
	if _, err := s.statusRepo.GetStatusByID(ctx, statusID); err != nil {
		if errors.Is(err, repository.ErrStatusNotFound) {
			return apperror.Validation(MsgInvalidStatusID)
		}
		return apperror.Internal(fmt.Errorf("failed to find status: %w", err))
	}
	return nil
}

func (s *TaskService) taskError(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return apperror.NotFound(MsgTaskNotFound)
	}
	return apperror.Internal(fmt.Errorf("failed to find task: %w", err))
}

// cacheGet reports a hit. Cache failures are logged and treated as a miss.
func (s *TaskService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetObject(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *TaskService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TaskService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CacheKeyAllTasks, CacheKeyTasksByStatus); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}
