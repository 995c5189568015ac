package utils

import (
	"fmt"
	"time"
)

// Token lifetimes are fixed and not configurable
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenConfig carries the process-wide token secrets
type TokenConfig struct {
	EncryptionKey string
	AccessSecret  string
	RefreshSecret string
}

// TokenCodec bundles the bearer-token signers with the at-rest cipher
type TokenCodec struct {
	cipher  *TokenCipher
	access  *JWTSigner
	refresh *JWTSigner
}

func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token signing secrets must be set")
	}

	c, err := NewTokenCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	return &TokenCodec{
		cipher:  c,
		access:  NewJWTSigner(cfg.AccessSecret, AccessTokenTTL),
		refresh: NewJWTSigner(cfg.RefreshSecret, RefreshTokenTTL),
	}, nil
}

func (tc *TokenCodec) Encrypt(plaintext string) (string, error) {
	return tc.cipher.Encrypt(plaintext)
}

func (tc *TokenCodec) Decrypt(ciphertext string) (string, error) {
	return tc.cipher.Decrypt(ciphertext)
}

// SignAccess returns a signed access token and its expiry
func (tc *TokenCodec) SignAccess(userID uint, email string) (string, time.Time, error) {
	return tc.access.Sign(userID, email)
}

// SignRefresh returns a signed refresh token and its expiry
func (tc *TokenCodec) SignRefresh(userID uint, email string) (string, time.Time, error) {
	return tc.refresh.Sign(userID, email)
}

func (tc *TokenCodec) VerifyAccess(token string) (*Claims, error) {
	return tc.access.Verify(token)
}

func (tc *TokenCodec) VerifyRefresh(token string) (*Claims, error) {
	return tc.refresh.Verify(token)
}
