package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTValidator_Validate(t *testing.T) {
	v := NewJWTValidator(testSecret)

	t.Run("valid token yields claims", func(t *testing.T) {
		token := signToken(t, Claims{
			UserID: "u1",
			Name:   "Asha Rao",
			Email:  "asha@example.com",
			Phone:  "9876543210",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)

		claims, err := v.Validate(token)

		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "Asha Rao", claims.Name)
		assert.Equal(t, "asha@example.com", claims.Email)
		assert.Equal(t, "9876543210", claims.Phone)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := signToken(t, Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}, testSecret)

		_, err := v.Validate(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token := signToken(t, Claims{UserID: "u1"}, "other-secret")

		_, err := v.Validate(token)
		assert.Error(t, err)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		token := signToken(t, Claims{}, testSecret)

		_, err := v.Validate(token)
		assert.ErrorContains(t, err, "user_id")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := v.Validate("not.a.jwt")
		assert.Error(t, err)
	})
}
