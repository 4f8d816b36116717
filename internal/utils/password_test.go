package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("opening-night", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "opening-night", hash)

	assert.True(t, VerifyPassword(hash, "opening-night"))
	assert.False(t, VerifyPassword(hash, "closing-night"))
	assert.False(t, VerifyPassword("not-a-hash", "opening-night"))
}
