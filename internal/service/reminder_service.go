package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-management-backend/internal/mailer"
	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/pkg/apperror"

	"go.uber.org/zap"
)

const MsgReminderNotFound = "Reminder not found"

type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	taskRepo     *repository.TaskRepository
	auditRepo    *repository.AuditRepository
	mailer       mailer.Mailer
	logger       *zap.Logger
}

func NewReminderService(
	reminderRepo *repository.ReminderRepository,
	taskRepo *repository.TaskRepository,
	auditRepo *repository.AuditRepository,
	m mailer.Mailer,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		taskRepo:     taskRepo,
		auditRepo:    auditRepo,
		mailer:       m,
		logger:       logger,
	}
}

// CreateReminder stores a reminder and notifies the users the task is shared with
func (s *ReminderService) CreateReminder(ctx context.Context, taskID uint, reminderDate time.Time, userID uint) (*models.Reminder, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	reminder := &models.Reminder{
		TaskID:       taskID,
		ReminderDate: reminderDate,
	}
	if err := s.reminderRepo.CreateReminder(ctx, reminder); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create reminder: %w", err))
	}

	s.notify(ctx, task, "Reminder Created",
		fmt.Sprintf("A reminder has been set for your task %q. Due date: %s.", task.Title, task.DueDate.Format(time.RFC1123)))
	recordAudit(ctx, s.auditRepo, s.logger, &userID, "reminder_create", fmt.Sprintf("Created reminder %d for task %d", reminder.ID, taskID))
	return reminder, nil
}

// UpdateReminder moves a reminder to another task and/or date and notifies the task's shared users
func (s *ReminderService) UpdateReminder(ctx context.Context, id, taskID uint, reminderDate *time.Time, userID uint) (*models.Reminder, error) {
	reminder, err := s.reminderRepo.GetReminderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return nil, apperror.NotFound(MsgReminderNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find reminder: %w", err))
	}

	if taskID == 0 {
		taskID = reminder.TaskID
	}
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	reminder.TaskID = taskID
	if reminderDate != nil {
		reminder.ReminderDate = *reminderDate
	}
	if err := s.reminderRepo.UpdateReminder(ctx, reminder); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update reminder: %w", err))
	}

	s.notify(ctx, task, "Reminder Updated",
		fmt.Sprintf("The reminder for your task %q has been updated. Due date: %s.", task.Title, task.DueDate.Format(time.RFC1123)))
	recordAudit(ctx, s.auditRepo, s.logger, &userID, "reminder_update", fmt.Sprintf("Updated reminder %d", id))
	return reminder, nil
}

func (s *ReminderService) loadTask(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskWithSharedUsers(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperror.NotFound(MsgTaskNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find task: %w", err))
	}
	return task, nil
}

// notify emails the task's shared users once each. Mail failures are logged only.
func (s *ReminderService) notify(ctx context.Context, task *models.Task, subject, text string) {
	recipients := sharedEmails(task)
	if len(recipients) == 0 {
		return
	}

	err := s.mailer.Send(ctx, mailer.Message{
		To:      recipients,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		s.logger.Error("Failed to send reminder email",
			zap.Uint("task_id", task.ID),
			zap.Strings("to", recipients),
			zap.Error(err),
		)
	}
}

func sharedEmails(task *models.Task) []string {
	seen := make(map[string]struct{}, len(task.Shares))
	emails := make([]string, 0, len(task.Shares))
	for _, share := range task.Shares {
		if share.User == nil {
			continue
		}
		if _, ok := seen[share.User.Email]; ok {
			continue
		}
		seen[share.User.Email] = struct{}{}
		emails = append(emails, share.User.Email)
	}
	return emails
}
