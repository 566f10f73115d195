package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hashed)

	assert.True(t, CheckPassword(hashed, "admin123"))
	assert.False(t, CheckPassword(hashed, "admin124"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}
