package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword(hash, "S3cret!"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
