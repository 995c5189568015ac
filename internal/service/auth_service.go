package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-management-backend/internal/config"
	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"go.uber.org/zap"
)

// Client-facing messages of the token lifecycle
const (
	MsgTokenMissing         = "Unauthorized - Token not found"
	MsgTokenInvalid         = "Unauthorized - Invalid token"
	MsgTokenNotFoundExpired = "Unauthorized - Token not found or expired"
	MsgTokenMismatch        = "Unauthorized - Token mismatch"
	MsgUnauthorizedUser     = "Unauthorized - User not found."
	MsgLogoutTokenNotFound  = "Token not found"
	MsgUserNotFound         = "User not found"
	MsgInvalidCredentials   = "Invalid Credentials"
	MsgUserExists           = "Email or Username already exists"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	tokenRepo *repository.TokenRepository
	auditRepo *repository.AuditRepository
	codec     *utils.TokenCodec
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokenRepo *repository.TokenRepository,
	auditRepo *repository.AuditRepository,
	codec *utils.TokenCodec,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		auditRepo: auditRepo,
		codec:     codec,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

// Register creates a new USER account
func (s *AuthService) Register(ctx context.Context, userName, email, password string) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmailOrUserName(ctx, email, userName)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to check existing user: %w", err))
	}
	if exists {
		return nil, apperror.Conflict(MsgUserExists)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	s.audit(ctx, &user.ID, "user_registration", fmt.Sprintf("User %s registered", userName))
	return user, nil
}

// Login verifies credentials and issues tokens. The user's ACCESS record is replaced;
// an existing REFRESH record is reused, otherwise a new one is stored.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find user: %w", err))
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	accessToken, err := s.issueAccess(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	refreshToken, err := s.issueRefresh(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.audit(ctx, &user.ID, "user_login", fmt.Sprintf("User %s logged in", user.Email))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) issueAccess(ctx context.Context, user *models.User) (string, error) {
	token, expiresAt, err := s.codec.SignAccess(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	encrypted, err := s.codec.Encrypt(token)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt access token: %w", err)
	}

	record := &models.TokenRecord{
		TokenType:      models.TokenTypeAccess,
		EncryptedToken: encrypted,
		TokenHash:      utils.Fingerprint(token),
		UserID:         user.ID,
		ExpiredAt:      expiresAt,
	}
	if err := s.tokenRepo.Replace(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}
	return token, nil
}

func (s *AuthService) issueRefresh(ctx context.Context, user *models.User) (string, error) {
	existing, err := s.tokenRepo.FindByUserAndType(ctx, user.ID, models.TokenTypeRefresh)
	if err == nil {
		return s.decryptRefresh(existing)
	}
	if !errors.Is(err, repository.ErrTokenNotFound) {
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	token, expiresAt, err := s.codec.SignRefresh(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	encrypted, err := s.codec.Encrypt(token)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	stored, created, err := s.tokenRepo.CreateIfAbsent(ctx, &models.TokenRecord{
		TokenType:      models.TokenTypeRefresh,
		EncryptedToken: encrypted,
		TokenHash:      utils.Fingerprint(token),
		UserID:         user.ID,
		ExpiredAt:      expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	if created {
		return token, nil
	}
	// a concurrent login stored its refresh token first
	return s.decryptRefresh(stored)
}

func (s *AuthService) decryptRefresh(record *models.TokenRecord) (string, error) {
	token, err := s.codec.Decrypt(record.EncryptedToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer access token to its user. The token must verify and
// must equal the user's stored ACCESS token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized(MsgTokenMissing)
	}

	claims, err := s.codec.VerifyAccess(token)
	if err != nil {
		return nil, apperror.Unauthorized(MsgTokenInvalid)
	}

	record, err := s.tokenRepo.FindByUserAndType(ctx, claims.UserID, models.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, apperror.Unauthorized(MsgTokenNotFoundExpired)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find access token: %w", err))
	}
	if !record.ExpiredAt.After(s.now()) {
		return nil, apperror.Unauthorized(MsgTokenNotFoundExpired)
	}

	stored, err := s.codec.Decrypt(record.EncryptedToken)
	if err != nil {
		return nil, apperror.Unauthorized(MsgTokenInvalid)
	}
	if stored != token {
		return nil, apperror.Unauthorized(MsgTokenMismatch)
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Unauthorized(MsgUnauthorizedUser)
		}
		return nil, apperror.Internal(fmt.Errorf("failed to find user: %w", err))
	}
	return user, nil
}

// Logout deletes the ACCESS record matching token and every REFRESH record of the user
func (s *AuthService) Logout(ctx context.Context, token string, userID uint) error {
	if token == "" {
		return apperror.Unauthorized(MsgTokenMissing)
	}

	deleted, err := s.tokenRepo.DeleteByHash(ctx, models.TokenTypeAccess, utils.Fingerprint(token))
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete access token: %w", err))
	}
	if deleted == 0 {
		return apperror.NotFound(MsgLogoutTokenNotFound)
	}

	if _, err := s.tokenRepo.DeleteByUserAndType(ctx, userID, models.TokenTypeRefresh); err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete refresh tokens: %w", err))
	}

	s.audit(ctx, &userID, "user_logout", fmt.Sprintf("User %d logged out", userID))
	return nil
}

// EnsureAdmin creates the configured ADMIN account if no user holds its email.
// It does nothing when the admin email or password is unset.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	_, err := s.userRepo.FindUserByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	passwordHash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		UserName:     cfg.UserName,
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Admin account created", zap.String("email", cfg.Email))
	s.audit(ctx, &admin.ID, "admin_bootstrap", fmt.Sprintf("Admin %s created", cfg.Email))
	return nil
}

func (s *AuthService) audit(ctx context.Context, userID *uint, action, details string) {
	recordAudit(ctx, s.auditRepo, s.logger, userID, action, details)
}
