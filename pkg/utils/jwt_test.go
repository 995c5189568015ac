package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSigner_SignAndVerify(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)

	token, expiresAt, err := s.Sign(42, "a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTSigner_TokensAreUnique(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)

	a, _, err := s.Sign(1, "a@x.com")
	require.NoError(t, err)
	b, _, err := s.Sign(1, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestJWTSigner_WrongSecret(t *testing.T) {
	token, _, err := NewJWTSigner("secret-a", time.Hour).Sign(1, "a@x.com")
	require.NoError(t, err)

	_, err = NewJWTSigner("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestJWTSigner_Expired(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := s.Sign(1, "a@x.com")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTSigner_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: 1, Email: "a@x.com"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTSigner("test-secret", time.Hour).Verify(unsigned)
	assert.Error(t, err)
}

func TestJWTSigner_Malformed(t *testing.T) {
	_, err := NewJWTSigner("test-secret", time.Hour).Verify("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenCodec_AccessAndRefreshAreIndependent(t *testing.T) {
	codec, err := NewTokenCodec(TokenConfig{
		EncryptionKey: "enc",
		AccessSecret:  "access",
		RefreshSecret: "refresh",
	})
	require.NoError(t, err)

	access, accessExp, err := codec.SignAccess(7, "u@x.com")
	require.NoError(t, err)
	refresh, refreshExp, err := codec.SignRefresh(7, "u@x.com")
	require.NoError(t, err)

	assert.True(t, refreshExp.After(accessExp))

	_, err = codec.VerifyAccess(refresh)
	assert.Error(t, err, "refresh token must not pass as access token")
	_, err = codec.VerifyRefresh(access)
	assert.Error(t, err, "access token must not pass as refresh token")

	claims, err := codec.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestNewTokenCodec_RequiresSecrets(t *testing.T) {
	_, err := NewTokenCodec(TokenConfig{EncryptionKey: "enc", AccessSecret: "a"})
	assert.Error(t, err)
}
