package service

import (
	"context"

	"task-management-backend/internal/repository"

	"go.uber.org/zap"
)

// recordAudit writes an audit entry. Failures are logged and never fail the caller.
func recordAudit(ctx context.Context, repo *repository.AuditRepository, logger *zap.Logger, userID *uint, action, details string) {
	if err := repo.CreateAuditLog(ctx, userID, action, details); err != nil {
		logger.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
