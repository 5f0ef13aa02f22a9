package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration: expiration,
		Issuer:                "backoffice-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestService(15 * time.Minute)
	tenantID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := service.GenerateAccessToken(GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "clerk",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := service.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "clerk", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "backoffice-test", claims.Issuer)
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	t.Run("rejects expired token", func(t *testing.T) {
		service := newTestService(-1 * time.Minute)

		token, _, err := service.GenerateAccessToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		service := newTestService(15 * time.Minute)
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-entirely",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "backoffice-test",
		})

		token, _, err := other.GenerateAccessToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		service := newTestService(15 * time.Minute)

		_, err := service.ValidateAccessToken("not.a.token")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
