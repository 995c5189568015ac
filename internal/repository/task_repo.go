package repository

import (
	"context"
	"errors"
	"time"

	"task-management-backend/internal/models"

	"gorm.io/gorm"
)

// TaskFilter narrows FilterTasks. Zero values are ignored.
type TaskFilter struct {
	StatusID   uint
	DueBefore  *time.Time
	AssigneeID uint
	TaskIDs    []uint
	SortColumn string
	Descending bool
	Offset     int
	Limit      int
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask creates a new task
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetTaskByID retrieves a task with its status
func (r *TaskRepository) GetTaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("Status").First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetTaskWithSharedUsers retrieves a task with its owner and the users it is shared with
func (r *TaskRepository) GetTaskWithSharedUsers(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Shares.User").
		First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetAllTasks retrieves all tasks with status and owner
func (r *TaskRepository) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("User").
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

// GetTasksByStatus retrieves tasks in one status
func (r *TaskRepository) GetTasksByStatus(ctx context.Context, statusID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Status").
		Where("status_id = ?", statusID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

// UpdateTask saves every field of an existing task
func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Status", "User", "Shares", "SubTasks").Save(task).Error
}

// UpdateTaskStatus moves a task to another status
func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id, statusID uint) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("status_id", statusID).Error
}

// DeleteTask removes a task and, through cascades, its shares, subtasks and reminders
func (r *TaskRepository) DeleteTask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Reminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskShare{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// FilterTasks returns one page of matching tasks and the total match count
func (r *TaskRepository) FilterTasks(ctx context.Context, f TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if f.StatusID != 0 {
		query = query.Where("status_id = ?", f.StatusID)
	}
	if f.DueBefore != nil {
		query = query.Where("due_date <= ?", *f.DueBefore)
	}
	if f.AssigneeID != 0 {
		query = query.Where("user_id = ?", f.AssigneeID)
	}
	if f.TaskIDs != nil {
		query = query.Where("id IN ?", f.TaskIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.SortColumn + " ASC"
	if f.Descending {
		order = f.SortColumn + " DESC"
	}

	var tasks []models.Task
	err := query.Order(order).Offset(f.Offset).Limit(f.Limit).Find(&tasks).Error
	return tasks, total, err
}
