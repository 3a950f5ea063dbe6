package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/okhira/mijikai/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-token-validation"

func signTestToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	svc := NewTokenService(testSecret, "mijikai")

	t.Run("ValidToken", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub":   float64(42),
			"email": "owner@example.com",
			"role":  "user",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID())
		assert.Equal(t, "owner@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("StringSubjectCoerces", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "17",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 17, claims.UserID())
	})

	t.Run("NonCoercibleSubjectYieldsZero", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "not-a-number",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 0, claims.UserID())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": float64(42),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrTokenExpired))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte("some-other-secret"), jwt.MapClaims{
			"sub": float64(42),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidToken))
	})

	t.Run("NonHMACSigningMethod", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": float64(42),
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidSigningKey))
	})

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidToken))
	})
}
