package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordHashing(t *testing.T) {
	user := &User{Email: "test@example.com"}
	require.NoError(t, user.SetPassword("secret-password"))

	assert.NotEqual(t, "secret-password", user.Password)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestUser_IsPlatformAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RolePlatformAdmin}).IsPlatformAdmin())
	assert.False(t, (&User{Role: RoleCompanyAdmin}).IsPlatformAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsPlatformAdmin())
}
