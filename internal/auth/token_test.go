package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-accounts/internal/config"
)

var pasetoKey = []byte("0123456789abcdef0123456789abcdef")

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// tamper flips a high-order bit of the final base64url character. The final
// character of an encoded segment may carry unused padding bits, so mutating
// its low bits can decode to the very same bytes; flipping bit 4 of the 6-bit
// group always lands in bits the signature covers.
func tamper(token string) string {
	last := token[len(token)-1]
	idx := strings.IndexByte(base64URLAlphabet, last)
	return token[:len(token)-1] + string(base64URLAlphabet[idx^16])
}

func TestTamper_AlwaysChangesDecodedBytes(t *testing.T) {
	// 43 base64url characters decode to 32 bytes, the HS256 signature size;
	// the final character contributes only its high bits.
	for _, c := range base64URLAlphabet {
		segment := strings.Repeat("A", 42) + string(c)

		original, err := base64.RawURLEncoding.DecodeString(segment)
		require.NoError(t, err)
		mutated, err := base64.RawURLEncoding.DecodeString(tamper(segment))
		require.NoError(t, err)

		assert.NotEqual(t, original, mutated, "suffix %q", string(c))
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"))

	token, err := svc.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"))

	token, err := svc.Issue("a@b.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_TamperDetection(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"))

	token, err := svc.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(tamper(token))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_WrongKey(t *testing.T) {
	token, err := NewJWTService([]byte("key-one")).Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	_, err = NewJWTService([]byte("key-two")).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Malformed(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"))

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("too short"))
	assert.Error(t, err)

	_, err = NewPasetoService(pasetoKey)
	assert.NoError(t, err)
}

func TestPasetoService_IssueAndValidate(t *testing.T) {
	svc, err := NewPasetoService(pasetoKey)
	require.NoError(t, err)

	token, err := svc.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestPasetoService_Expired(t *testing.T) {
	svc, err := NewPasetoService(pasetoKey)
	require.NoError(t, err)

	token, err := svc.Issue("a@b.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestPasetoService_TamperDetection(t *testing.T) {
	svc, err := NewPasetoService(pasetoKey)
	require.NoError(t, err)

	token, err := svc.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(tamper(token))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService_BackendSelection(t *testing.T) {
	svc, err := NewTokenService(config.AuthConfig{
		SecretKey: []byte("any length works for HMAC"),
		Algorithm: config.AlgorithmHS256,
	})
	require.NoError(t, err)
	assert.IsType(t, &JWTService{}, svc)

	svc, err = NewTokenService(config.AuthConfig{
		SecretKey: pasetoKey,
		Algorithm: config.AlgorithmPasetoV4,
	})
	require.NoError(t, err)
	assert.IsType(t, &PasetoService{}, svc)

	_, err = NewTokenService(config.AuthConfig{Algorithm: "none"})
	assert.Error(t, err)
}
