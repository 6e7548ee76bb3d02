package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	mgr := NewJWTManager("test-secret-that-is-long-enough", time.Hour)

	token, err := mgr.Generate("user-1", "Asha", "asha@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret-that-is-long-enough", time.Hour)
	other := NewJWTManager("a-completely-different-secret-key", time.Hour)

	token, err := mgr.Generate("user-1", "Asha", "asha@example.com", "user")
	require.NoError(t, err)

	claims, err := other.Validate(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	mgr := NewJWTManager("test-secret-that-is-long-enough", -time.Minute)

	token, err := mgr.Generate("user-1", "Asha", "asha@example.com", "user")
	require.NoError(t, err)

	claims, err := mgr.Validate(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Garbage(t *testing.T) {
	mgr := NewJWTManager("test-secret-that-is-long-enough", time.Hour)

	claims, err := mgr.Validate("not-a-token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}
