package service

import (
	"context"
	"time"

	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"

	"go.uber.org/zap"
)

// TokenSweeper periodically deletes expired ACCESS token records.
// REFRESH records are left alone; logout is their only removal path.
type TokenSweeper struct {
	tokenRepo *repository.TokenRepository
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewTokenSweeper(tokenRepo *repository.TokenRepository, interval time.Duration, logger *zap.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &TokenSweeper{
		tokenRepo: tokenRepo,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled
func (w *TokenSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Token sweeper started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Token sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.SweepExpired(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("Failed to sweep expired tokens", zap.Error(err))
			}
		}
	}
}

// SweepExpired deletes ACCESS records past their expiry and returns how many were removed
func (w *TokenSweeper) SweepExpired(ctx context.Context) (int64, error) {
	deleted, err := w.tokenRepo.DeleteExpired(ctx, models.TokenTypeAccess, w.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		w.logger.Info("Swept expired access tokens", zap.Int64("count", deleted))
	}
	return deleted, nil
}
