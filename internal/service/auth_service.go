package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

// AuthService управляет сессиями администраторов консоли
type AuthService struct {
	authRepo    repository.AuthRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(authRepo repository.AuthRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Login выполняет вход на бэкенде и сохраняет сессию. Возвращает ID сессии.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *entity.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	}

	res, err := s.authRepo.Login(ctx, username, password)
	if err != nil {
		log.Printf("[AuthService] Вход пользователя %s отклонён: %v", username, err)
		return "", nil, err
	}
	if res.Token == "" {
		msg := res.Message
		if msg == "" {
			msg = "login failed"
		}
		return "", nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, msg)
	}

	now := s.now()
	session := &entity.Session{
		Token:     res.Token,
		Username:  res.Username,
		Role:      res.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if session.Username == "" {
		session.Username = username
	}

	ttl := s.sessionTTL
	info, err := auth.InspectToken(res.Token)
	if err != nil {
		log.Printf("[AuthService] WARN: не удалось разобрать токен бэкенда для %s: %v", username, err)
	} else {
		if session.Role == "" {
			session.Role = info.Role
		}
		if !info.ExpiresAt.IsZero() {
			if !info.ExpiresAt.After(now) {
				return "", nil, fmt.Errorf("%w: backend issued an expired token", apperrors.ErrUnauthorized)
			}
			// Сессия не переживает токен бэкенда
			if until := info.ExpiresAt.Sub(now); until < ttl {
				ttl = until
				session.ExpiresAt = info.ExpiresAt
			}
		}
	}

	sessionID := uuid.NewString()
	if err := s.sessionRepo.Save(ctx, sessionID, session, ttl); err != nil {
		return "", nil, err
	}

	log.Printf("[AuthService] Пользователь %s (%s) вошёл в консоль", session.Username, session.Role)
	return sessionID, session, nil
}

// Logout удаляет сессию. Отсутствующая сессия не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentUser возвращает активную сессию или ErrUnauthorized.
// Истёкшая сессия удаляется.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: no session", apperrors.ErrUnauthorized)
	}

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: session not found or expired", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if session.IsExpired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
			log.Printf("[AuthService] Ошибка удаления истёкшей сессии %s: %v", sessionID, err)
		}
		return nil, fmt.Errorf("%w: session expired", apperrors.ErrUnauthorized)
	}
	return session, nil
}

// IsAuthenticated сообщает, есть ли у ID активная сессия
func (s *AuthService) IsAuthenticated(ctx context.Context, sessionID string) bool {
	_, err := s.CurrentUser(ctx, sessionID)
	return err == nil
}
