package repository

import (
	"context"

	"task-management-backend/internal/models"

	"gorm.io/gorm"
)

type TaskShareRepository struct {
	db *gorm.DB
}

func NewTaskShareRepo(db *gorm.DB) *TaskShareRepository {
	return &TaskShareRepository{db: db}
}

// ShareTask shares a task with a user. Sharing twice returns ErrAlreadyShared.
func (r *TaskShareRepository) ShareTask(ctx context.Context, taskID, userID uint) (*models.TaskShare, error) {
	shared, err := r.IsShared(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if shared {
		return nil, ErrAlreadyShared
	}

	share := &models.TaskShare{
		TaskID: taskID,
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		return nil, err
	}
	return share, nil
}

// IsShared checks if a task is shared with a specific user
func (r *TaskShareRepository) IsShared(ctx context.Context, taskID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TaskShare{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetTaskIDsSharedWith retrieves the IDs of all tasks shared with a user
func (r *TaskShareRepository) GetTaskIDsSharedWith(ctx context.Context, userID uint) ([]uint, error) {
	var taskIDs []uint
	err := r.db.WithContext(ctx).Model(&models.TaskShare{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &taskIDs).Error
	return taskIDs, err
}
