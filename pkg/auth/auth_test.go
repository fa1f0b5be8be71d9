package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	tm := newTestTokenManager()

	access, refresh, expiresIn, err := tm.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, int64(900), expiresIn)

	claims, err := tm.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "access", claims.Type)

	refreshClaims, err := tm.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestValidateToken_WrongType(t *testing.T) {
	tm := newTestTokenManager()

	access, refresh, _, err := tm.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(refresh)
	assert.Error(t, err, "refresh token must not pass as access token")

	_, err = tm.ValidateRefreshToken(access)
	assert.Error(t, err, "access token must not pass as refresh token")
}

func TestValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, _, _, err := tm.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_TamperedSecret(t *testing.T) {
	tm := newTestTokenManager()
	other := NewTokenManager("different", "secrets", 15*time.Minute, time.Hour)

	access, _, _, err := tm.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing scheme", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordManager(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("SecurePass123")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass123", hash)

	assert.NoError(t, pm.ComparePassword(hash, "SecurePass123"))
	assert.Error(t, pm.ComparePassword(hash, "WrongPass123"))
}

func TestValidatePassword(t *testing.T) {
	pm := NewPasswordManager()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "SecurePass123", false},
		{"too short", "Sp1", true},
		{"no uppercase", "securepass123", true},
		{"no lowercase", "SECUREPASS123", true},
		{"no number", "SecurePassword", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pm.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada Lovelace"))
	assert.Error(t, ValidateName("A"))
	assert.Error(t, ValidateName("   "))
}
