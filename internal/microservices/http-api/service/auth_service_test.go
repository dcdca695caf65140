package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := NewAuthService(testSecret)

	token, err := svc.IssueToken("user-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthService_Rejects(t *testing.T) {
	svc := NewAuthService(testSecret).(*authService)

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAuthService("ffffffffffffffffffffffffffffffff")
		token, err := other.IssueToken("user-1", "user", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := svc.IssueToken("user-1", "user", time.Minute)
		require.NoError(t, err)
		svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { svc.now = time.Now }()
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		token, err := svc.IssueToken("", "user", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("DefaultsRole", func(t *testing.T) {
		token, err := svc.IssueToken("user-2", "", time.Hour)
		require.NoError(t, err)
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user", claims.Role)
	})
}
