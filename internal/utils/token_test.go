package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, exp, err := NewSessionToken(testSecret, 42, true, 30)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), exp, time.Minute)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, _, err := NewSessionToken(testSecret, 7, false, 1)
	require.NoError(t, err)

	_, err = ParseSessionToken("a different secret", token)
	assert.Error(t, err)
}

func TestParseSessionTokenExpired(t *testing.T) {
	// A negative TTL puts exp in the past, which the parser must reject.
	token, _, err := NewSessionToken(testSecret, 7, false, -1)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken(testSecret, "not-a-token")
	assert.Error(t, err)
}
