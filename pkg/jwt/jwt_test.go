package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", 15*time.Minute)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "alice@test.local")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@test.local", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.Allows(ScopeTranscribe))
	assert.False(t, claims.Dev)
}

func TestManager_DevToken(t *testing.T) {
	m := NewManager("secret", time.Minute)

	token, err := m.GenerateDevToken(uuid.New(), "dev@test.local", 720*time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Dev)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(700*time.Hour)))
}

func TestClaims_Allows(t *testing.T) {
	c := &Claims{Scope: "read  transcribe"}
	assert.True(t, c.Allows(ScopeTranscribe))
	assert.False(t, c.Allows("admin"))
	assert.False(t, (&Claims{}).Allows(ScopeTranscribe))
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", 15*time.Minute)

	token, err := m.GenerateAccessTokenWithExpiry(uuid.New(), "bob@test.local", -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Minute).GenerateAccessToken(uuid.New(), "x@test.local")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Minute).ValidateAccessToken(token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestManager_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Minute).ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}
