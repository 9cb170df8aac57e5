package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

func signTestToken(t *testing.T, claims BackendClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken_ReadsClaimsWithoutKey(t *testing.T) {
	// Arrange
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signTestToken(t, BackendClaims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "examiner",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	// Act
	info, err := InspectToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "examiner", info.Subject)
	assert.Equal(t, "ADMIN", info.Role)
	assert.True(t, exp.Equal(info.ExpiresAt), "срок действия должен совпадать с exp")
}

func TestInspectToken_WithoutExpiry(t *testing.T) {
	token := signTestToken(t, BackendClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"}})

	info, err := InspectToken(token)

	require.NoError(t, err)
	assert.True(t, info.ExpiresAt.IsZero())
}

func TestInspectToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		_, err := InspectToken(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "токен %q", token)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, SessionFromContext(ctx))
	assert.Empty(t, TokenFromContext(ctx))

	ctx = WithSession(ctx, &entity.Session{Token: "jwt", Username: "admin"})

	require.NotNil(t, SessionFromContext(ctx))
	assert.Equal(t, "admin", SessionFromContext(ctx).Username)
	assert.Equal(t, "jwt", TokenFromContext(ctx))
}
