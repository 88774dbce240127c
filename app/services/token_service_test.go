package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func newHMACTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTokenService(15*time.Minute, 24*time.Hour, "staffing-crm", "staffing-crm-api", false, "", "", testSecret)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("RequiresSecretWithoutRSA", func(t *testing.T) {
		_, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", false, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RequiresBothRSAKeys", func(t *testing.T) {
		_, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", true, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RejectsGarbagePEM", func(t *testing.T) {
		_, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", true, "not a key", "not a key", "")
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newHMACTokenService(t)

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)
	assert.True(t, accessClaims.ExpiresAt.After(accessClaims.IssuedAt))

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newHMACTokenService(t)
	other, err := NewTokenService(15*time.Minute, 24*time.Hour, "staffing-crm", "staffing-crm-api", false, "", "", "a-completely-different-secret-key-value")
	require.NoError(t, err)

	access, _, err := other.GenerateTokens(7)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken(t *testing.T) {
	svc := newHMACTokenService(t)

	access, refresh, err := svc.GenerateTokens(9)
	require.NoError(t, err)

	t.Run("IssuesFreshPair", func(t *testing.T) {
		newAccess, newRefresh, err := svc.RefreshToken(refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(9), claims.UserID)
	})

	t.Run("RejectsAccessToken", func(t *testing.T) {
		_, _, err := svc.RefreshToken(access)
		assert.Error(t, err)
	})
}

func TestRevokeToken(t *testing.T) {
	svc := newHMACTokenService(t)

	access, _, err := svc.GenerateTokens(3)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(access))
	require.NoError(t, svc.RevokeToken(access))
	assert.True(t, svc.IsTokenRevoked(access))

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking an already revoked token is a no-op
	assert.NoError(t, svc.RevokeToken(access))
}
