package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidateToken(t *testing.T) {
	token, err := IssueToken(testSecret, "fleet-admiral", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "fleet-admiral", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	expired, err := IssueToken(testSecret, "ensign", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := IssueToken("ffffffffffffffffffffffffffffffff", "ensign", RoleAdmin, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":        expired,
		"wrong secret":   otherSecret,
		"none algorithm": unsigned,
		"garbage":        "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(testSecret, token)
			assert.Error(t, err)
		})
	}
}

func TestTokensRequireSecret(t *testing.T) {
	_, err := IssueToken("", "someone", RoleAdmin, time.Hour)
	assert.Error(t, err)

	_, err = ValidateToken("", "token")
	assert.Error(t, err)
}
