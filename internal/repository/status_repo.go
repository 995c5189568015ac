package repository

import (
	"context"
	"errors"

	"task-management-backend/internal/models"

	"gorm.io/gorm"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepo(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// GetStatusByID retrieves a status by ID
func (r *StatusRepository) GetStatusByID(ctx context.Context, id uint) (*models.Status, error) {
	var status models.Status
	err := r.db.WithContext(ctx).First(&status, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

// GetAllStatuses retrieves every status ordered by ID
func (r *StatusRepository) GetAllStatuses(ctx context.Context) ([]models.Status, error) {
	var statuses []models.Status
	err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}
