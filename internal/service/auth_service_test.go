package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "admin", "role": "ADMIN"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func newTestAuthService() (*AuthService, *MockAuthRepository, *MockSessionRepository) {
	authRepo := new(MockAuthRepository)
	sessionRepo := new(MockSessionRepository)
	s := NewAuthService(authRepo, sessionRepo, 24*time.Hour)
	s.now = func() time.Time { return fixedNow }
	return s, authRepo, sessionRepo
}

func TestAuthService_Login_TTLFollowsTokenExpiry(t *testing.T) {
	// Arrange
	s, authRepo, sessionRepo := newTestAuthService()
	exp := fixedNow.Add(2 * time.Hour)
	token := signToken(t, exp)
	authRepo.On("Login", mock.Anything, "admin", "secret").
		Return(&repository.LoginResult{Token: token, Username: "admin", Role: "ADMIN"}, nil)
	sessionRepo.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*entity.Session"), 2*time.Hour).
		Return(nil)

	// Act
	sid, session, err := s.Login(context.Background(), "admin", "secret")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.Equal(t, token, session.Token)
	assert.Equal(t, exp.Unix(), session.ExpiresAt.Unix())
	sessionRepo.AssertExpectations(t)
}

func TestAuthService_Login_TokenWithoutExpiryUsesConfigTTL(t *testing.T) {
	s, authRepo, sessionRepo := newTestAuthService()
	authRepo.On("Login", mock.Anything, "admin", "secret").
		Return(&repository.LoginResult{Token: signToken(t, time.Time{}), Username: "admin"}, nil)
	sessionRepo.On("Save", mock.Anything, mock.Anything, mock.Anything, 24*time.Hour).Return(nil)

	_, session, err := s.Login(context.Background(), "admin", "secret")

	require.NoError(t, err)
	assert.Equal(t, "ADMIN", session.Role, "роль берётся из токена, если бэкенд её не вернул")
	assert.Equal(t, fixedNow.Add(24*time.Hour), session.ExpiresAt)
}

func TestAuthService_Login_OpaqueTokenStillAccepted(t *testing.T) {
	s, authRepo, sessionRepo := newTestAuthService()
	authRepo.On("Login", mock.Anything, "admin", "secret").
		Return(&repository.LoginResult{Token: "opaque"}, nil)
	sessionRepo.On("Save", mock.Anything, mock.Anything, mock.Anything, 24*time.Hour).Return(nil)

	_, session, err := s.Login(context.Background(), "admin", "secret")

	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
}

func TestAuthService_Login_Errors(t *testing.T) {
	t.Run("пустые учётные данные", func(t *testing.T) {
		s, authRepo, _ := newTestAuthService()

		_, _, err := s.Login(context.Background(), "  ", "")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		authRepo.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("бэкенд отклонил вход", func(t *testing.T) {
		s, authRepo, sessionRepo := newTestAuthService()
		backendErr := errors.New("Invalid username or password")
		authRepo.On("Login", mock.Anything, "admin", "bad").Return(nil, backendErr)

		_, _, err := s.Login(context.Background(), "admin", "bad")

		assert.Equal(t, backendErr, err)
		sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ответ без токена", func(t *testing.T) {
		s, authRepo, _ := newTestAuthService()
		authRepo.On("Login", mock.Anything, "admin", "secret").
			Return(&repository.LoginResult{Message: "Account disabled"}, nil)

		_, _, err := s.Login(context.Background(), "admin", "secret")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Contains(t, err.Error(), "Account disabled")
	})

	t.Run("истёкший токен", func(t *testing.T) {
		s, authRepo, sessionRepo := newTestAuthService()
		authRepo.On("Login", mock.Anything, "admin", "secret").
			Return(&repository.LoginResult{Token: signToken(t, fixedNow.Add(-time.Minute))}, nil)

		_, _, err := s.Login(context.Background(), "admin", "secret")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Run("активная сессия", func(t *testing.T) {
		s, _, sessionRepo := newTestAuthService()
		session := &entity.Session{Username: "admin", ExpiresAt: fixedNow.Add(time.Hour)}
		sessionRepo.On("Get", mock.Anything, "sid").Return(session, nil)

		got, err := s.CurrentUser(context.Background(), "sid")

		require.NoError(t, err)
		assert.Equal(t, session, got)
		assert.True(t, s.IsAuthenticated(context.Background(), "sid"))
	})

	t.Run("сессия не найдена", func(t *testing.T) {
		s, _, sessionRepo := newTestAuthService()
		sessionRepo.On("Get", mock.Anything, "sid").Return(nil, apperrors.ErrNotFound)

		_, err := s.CurrentUser(context.Background(), "sid")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("истёкшая сессия удаляется", func(t *testing.T) {
		s, _, sessionRepo := newTestAuthService()
		sessionRepo.On("Get", mock.Anything, "sid").
			Return(&entity.Session{Username: "admin", ExpiresAt: fixedNow.Add(-time.Second)}, nil)
		sessionRepo.On("Delete", mock.Anything, "sid").Return(nil)

		_, err := s.CurrentUser(context.Background(), "sid")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		sessionRepo.AssertCalled(t, "Delete", mock.Anything, "sid")
	})

	t.Run("пустой ID", func(t *testing.T) {
		s, _, _ := newTestAuthService()

		assert.False(t, s.IsAuthenticated(context.Background(), ""))
	})
}

func TestAuthService_Logout(t *testing.T) {
	s, _, sessionRepo := newTestAuthService()
	sessionRepo.On("Delete", mock.Anything, "sid").Return(nil)

	require.NoError(t, s.Logout(context.Background(), "sid"))
	require.NoError(t, s.Logout(context.Background(), ""))
	sessionRepo.AssertNumberOfCalls(t, "Delete", 1)
}
