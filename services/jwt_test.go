package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "mindforge", time.Hour)

	token, err := svc.ToJWT("user-1", "ada@example.com", "Ada")
	require.NoError(t, err)

	claims, err := svc.VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.FullName)
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("test-secret", "mindforge", time.Hour)

	otherSecret, err := NewJWTService("other-secret", "mindforge", time.Hour).ToJWT("user-1", "", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(otherSecret)
	assert.Error(t, err)

	otherIssuer, err := NewJWTService("test-secret", "someone-else", time.Hour).ToJWT("user-1", "", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(otherIssuer)
	assert.Error(t, err)

	expired, err := NewJWTService("test-secret", "mindforge", -time.Minute).ToJWT("user-1", "", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(expired)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("test-secret", "mindforge", time.Hour)

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic dXNlcg==", "Bearer "} {
		_, err := svc.ExtractTokenFromHeader(header)
		assert.Error(t, err, header)
	}
}
