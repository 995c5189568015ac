package repository

import (
	"context"
	"errors"
	"time"

	"task-management-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository stores encrypted session tokens, one row per (user, token type)
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// FindByUserAndType returns the user's record of the given type
func (r *TokenRepository) FindByUserAndType(ctx context.Context, userID uint, tokenType models.TokenType) (*models.TokenRecord, error) {
	var record models.TokenRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token_type = ?", userID, tokenType).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Replace writes the record, overwriting any existing row for the same user and type.
// Concurrent writers converge on a single row; the last one wins.
func (r *TokenRepository) Replace(ctx context.Context, record *models.TokenRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"encrypted_token", "token_hash", "expired_at", "updated_at"}),
	}).Create(record).Error
}

// CreateIfAbsent inserts the record unless the user already holds one of that type.
// It returns the stored record and whether it was created by this call.
func (r *TokenRepository) CreateIfAbsent(ctx context.Context, record *models.TokenRecord) (*models.TokenRecord, bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_type"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return record, true, nil
	}

	existing, err := r.FindByUserAndType(ctx, record.UserID, record.TokenType)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// DeleteByHash removes the record of the given type whose fingerprint matches
func (r *TokenRepository) DeleteByHash(ctx context.Context, tokenType models.TokenType, hash string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("token_type = ? AND token_hash = ?", tokenType, hash).
		Delete(&models.TokenRecord{})
	return result.RowsAffected, result.Error
}

// DeleteByUserAndType removes every record of the given type held by the user
func (r *TokenRepository) DeleteByUserAndType(ctx context.Context, userID uint, tokenType models.TokenType) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND token_type = ?", userID, tokenType).
		Delete(&models.TokenRecord{})
	return result.RowsAffected, result.Error
}

// DeleteExpired removes records of the given type that expired before the cutoff
func (r *TokenRepository) DeleteExpired(ctx context.Context, tokenType models.TokenType, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("token_type = ? AND expired_at < ?", tokenType, before).
		Delete(&models.TokenRecord{})
	return result.RowsAffected, result.Error
}

// CountByUserAndType counts the user's records of the given type
func (r *TokenRepository) CountByUserAndType(ctx context.Context, userID uint, tokenType models.TokenType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TokenRecord{}).
		Where("user_id = ? AND token_type = ?", userID, tokenType).
		Count(&count).Error
	return count, err
}
