package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("unit-test-secret", 24*time.Hour)
	user := &models.User{
		Model:    models.Model{ID: 42},
		Email:    "admin@x.com",
		Role:     "admin",
		MyAdmin:  "root@x.com",
		Agencies: []models.Agency{{Model: models.Model{ID: 3}}},
	}

	raw, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@x.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "root@x.com", claims.MyAdmin)
	assert.Equal(t, []uint{3}, claims.Agencies)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokenService("unit-test-secret", 24*time.Hour)
	user := &models.User{Model: models.Model{ID: 1}, Email: "p@x.com", Role: "parent"}

	t.Run("expired", func(t *testing.T) {
		past := tokens.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) })
		raw, _, err := past.Issue(user)
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
		assert.Equal(t, "token expired", apperrors.FromError(err).Message)
	})

	t.Run("other secret", func(t *testing.T) {
		raw, _, err := NewTokenService("another-secret", time.Hour).Issue(user)
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
	})
}
