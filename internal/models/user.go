package models

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User represents the users table
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserName     string    `gorm:"uniqueIndex;not null;size:50" json:"userName"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Role         Role      `gorm:"size:10;not null;default:USER" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

// TokenRecord represents the token_records table.
// One row per (user_id, token_type); the unique index backs the one-active-token rule.
// EncryptedToken is AES-GCM ciphertext of the signed token, TokenHash its SHA-256 fingerprint.
type TokenRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TokenType      TokenType `gorm:"size:10;not null;uniqueIndex:idx_token_user_type,priority:2" json:"tokenType"`
	EncryptedToken string    `gorm:"type:text;not null" json:"-"`
	TokenHash      string    `gorm:"size:64;not null;index" json:"-"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_token_user_type,priority:1" json:"userId"`
	ExpiredAt      time.Time `gorm:"not null;index" json:"expiredAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for TokenRecord model
func (TokenRecord) TableName() string {
	return "token_records"
}
