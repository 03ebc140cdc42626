package auth_test

import (
	"testing"

	"BeatWave/core/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, auth.VerifyPassword("s3cret", hash))
	assert.False(t, auth.VerifyPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	auth.SetJWTSecret("test-secret")

	token, err := auth.GenerateToken(7, "alice")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseRejectsGarbage(t *testing.T) {
	auth.SetJWTSecret("test-secret")

	_, err := auth.ParseToken("not-a-token")
	assert.Error(t, err)
}
