package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserBeforeCreateHashesPassword(t *testing.T) {
	u := User{Name: "Asha", Email: "  Asha@Example.com ", Password: "s3cret-pass"}
	require.NoError(t, u.BeforeCreate(nil))

	assert.Equal(t, "asha@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, u.VerifyPassword("s3cret-pass"))
	assert.False(t, u.VerifyPassword("wrong"))
}

func TestUserBeforeCreateHashesHashLookingPassword(t *testing.T) {
	existing, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	require.NoError(t, err)
	plain := string(existing)

	u := User{Name: "Asha", Email: "asha@example.com", Password: plain}
	require.NoError(t, u.BeforeCreate(nil))

	assert.NotEqual(t, plain, u.Password)
	assert.True(t, u.VerifyPassword(plain), "the user can log in with exactly what they registered")
}
