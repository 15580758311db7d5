package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		email string
		role  string
	}{
		{"admin user", "admin@example.com", "admin"},
		{"regular user", "user@example.com", "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.True(t, claims.ExpiresAt.After(time.Now()))
		})
	}
}

func TestJWTMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("correct_key", time.Minute)
	other := NewJWTMaker("another_key", time.Minute)

	token, err := maker.GenerateToken("user@example.com", "user")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("correct_key", -time.Minute)

	token, err := maker.GenerateToken("user@example.com", "user")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_Garbage(t *testing.T) {
	maker := NewJWTMaker("correct_key", time.Minute)
	_, err := maker.ParseToken("not-a-token")
	assert.Error(t, err)
}
