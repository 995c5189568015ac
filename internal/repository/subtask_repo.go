package repository

import (
	"context"
	"errors"

	"task-management-backend/internal/models"

	"gorm.io/gorm"
)

type SubTaskRepository struct {
	db *gorm.DB
}

func NewSubTaskRepo(db *gorm.DB) *SubTaskRepository {
	return &SubTaskRepository{db: db}
}

func (r *SubTaskRepository) CreateSubTask(ctx context.Context, subTask *models.SubTask) error {
	return r.db.WithContext(ctx).Create(subTask).Error
}

func (r *SubTaskRepository) GetSubTaskByID(ctx context.Context, id uint) (*models.SubTask, error) {
	var subTask models.SubTask
	err := r.db.WithContext(ctx).First(&subTask, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, err
	}
	return &subTask, nil
}

func (r *SubTaskRepository) UpdateSubTask(ctx context.Context, subTask *models.SubTask) error {
	return r.db.WithContext(ctx).Omit("Status").Save(subTask).Error
}
