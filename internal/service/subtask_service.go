package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/pkg/apperror"

	"go.uber.org/zap"
)

const MsgSubTaskNotFound = "Subtask not found"

type SubTaskService struct {
	subTaskRepo *repository.SubTaskRepository
	taskRepo    *repository.TaskRepository
	statusRepo  *repository.StatusRepository
	auditRepo   *repository.AuditRepository
	logger      *zap.Logger
}

func NewSubTaskService(
	subTaskRepo *repository.SubTaskRepository,
	taskRepo *repository.TaskRepository,
	statusRepo *repository.StatusRepository,
	auditRepo *repository.AuditRepository,
	logger *zap.Logger,
) *SubTaskService {
	return &SubTaskService{
		subTaskRepo: subTaskRepo,
		taskRepo:    taskRepo,
		statusRepo:  statusRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// SubTaskInput carries the fields of a new subtask
type SubTaskInput struct {
	Title       string
	Description string
	StatusID    uint
	TaskID      uint
	DueDate     time.Time
}

func (s *SubTaskService) CreateSubTask(ctx context.Context, input SubTaskInput, userID uint) (*models.SubTask, error) {
	if _, err := s.taskRepo.GetTaskByID(ctx, input.TaskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperror.NotFound(MsgTaskNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find task: %w", err))
	}
	if err := s.checkStatus(ctx, input.StatusID); err != nil {
		return nil, err
	}

	subTask := &models.SubTask{
		Title:       input.Title,
		Description: input.Description,
		StatusID:    input.StatusID,
		TaskID:      input.TaskID,
		DueDate:     input.DueDate,
	}
	if err := s.subTaskRepo.CreateSubTask(ctx, subTask); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create subtask: %w", err))
	}

	recordAudit(ctx, s.auditRepo, s.logger, &userID, "subtask_create", fmt.Sprintf("Created subtask %d on task %d", subTask.ID, subTask.TaskID))
	return subTask, nil
}

func (s *SubTaskService) UpdateStatus(ctx context.Context, id, statusID, userID uint) (*models.SubTask, error) {
	subTask, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkStatus(ctx, statusID); err != nil {
		return nil, err
	}

	subTask.StatusID = statusID
	if err := s.subTaskRepo.UpdateSubTask(ctx, subTask); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update subtask: %w", err))
	}

	recordAudit(ctx, s.auditRepo, s.logger, &userID, "subtask_status", fmt.Sprintf("Moved subtask %d to status %d", id, statusID))
	return subTask, nil
}

func (s *SubTaskService) UpdateDueDate(ctx context.Context, id uint, dueDate time.Time, userID uint) (*models.SubTask, error) {
	subTask, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	subTask.DueDate = dueDate
	if err := s.subTaskRepo.UpdateSubTask(ctx, subTask); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update subtask: %w", err))
	}

	recordAudit(ctx, s.auditRepo, s.logger, &userID, "subtask_due_date", fmt.Sprintf("Changed due date of subtask %d", id))
	return subTask, nil
}

func (s *SubTaskService) find(ctx context.Context, id uint) (*models.SubTask, error) {
	subTask, err := s.subTaskRepo.GetSubTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubTaskNotFound) {
			return nil, apperror.NotFound(MsgSubTaskNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find subtask: %w", err))
	}
	return subTask, nil
}

func (s *SubTaskService) checkStatus(ctx context.Context, statusID uint) error {
	if _, err := s.statusRepo.GetStatusByID(ctx, statusID); err != nil {
		if errors.Is(err, repository.ErrStatusNotFound) {
			return apperror.Validation(MsgInvalidStatusID)
		}
		return apperror.Internal(fmt.Errorf("failed to find status: %w", err))
	}
	return nil
}
