package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

var testUser = &model.User{
	ID:    42,
	Email: "alice@example.com",
	Role:  model.RoleAdmin,
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	tokenString, err := svc.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Parse(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_Parse_Expired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	tokenString, err := svc.IssueWithTTL(testUser, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Parse(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_Parse_WrongSecret(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	other := NewTokenService([]byte("other-secret"), time.Hour)

	tokenString, err := svc.Issue(testUser)
	require.NoError(t, err)

	_, err = other.Parse(tokenString)
	assert.Error(t, err)
}

func TestTokenService_Parse_RejectsUnexpectedMethod(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	// Same secret, different HMAC variant: must be rejected by the
	// valid-methods allowlist.
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.Error(t, err)
}

func TestTokenService_Parse_Malformed(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := svc.Parse(tokenString)
		assert.Error(t, err, "token %q", tokenString)
	}
}

func TestClaims_UserID_NotNumeric(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}
	_, err := claims.UserID()
	assert.Error(t, err)
}
