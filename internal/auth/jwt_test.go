package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "session-abc", "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "session-abc", claims.SessionID)
	require.Equal(t, "huddle", claims.Issuer)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "session-abc", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(42, "session-abc", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "test-secret")
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "test-secret")
	require.Error(t, err)
}
