package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("unit-test-encryption-key")
	require.NoError(t, err)

	inputs := []string{
		"",
		"a",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VySWQiOjF9.sig",
		strings.Repeat("x", 4096),
		"unicode ✓ token",
	}
	for _, in := range inputs {
		ct, err := c.Encrypt(in)
		require.NoError(t, err)
		assert.NotEqual(t, in, ct)

		out, err := c.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestTokenCipher_RandomNonce(t *testing.T) {
	c, err := NewTokenCipher("unit-test-encryption-key")
	require.NoError(t, err)

	a, err := c.Encrypt("same-token")
	require.NoError(t, err)
	b, err := c.Encrypt("same-token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenCipher_DecryptWrongKey(t *testing.T) {
	c1, err := NewTokenCipher("key-one")
	require.NoError(t, err)
	c2, err := NewTokenCipher("key-two")
	require.NoError(t, err)

	ct, err := c1.Encrypt("secret")
	require.NoError(t, err)

	_, err = c2.Decrypt(ct)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestTokenCipher_DecryptMalformed(t *testing.T) {
	c, err := NewTokenCipher("unit-test-encryption-key")
	require.NoError(t, err)

	cases := map[string]string{
		"not base64": "%%%not-base64%%%",
		"too short":  base64.StdEncoding.EncodeToString([]byte("short")),
		"plain text": "eyJhbGciOiJIUzI1NiJ9",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(in)
			assert.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}
}

func TestTokenCipher_DecryptTampered(t *testing.T) {
	c, err := NewTokenCipher("unit-test-encryption-key")
	require.NoError(t, err)

	ct, err := c.Encrypt("sensitive")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestNewTokenCipher_EmptyKey(t *testing.T) {
	_, err := NewTokenCipher("")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 64)
}
