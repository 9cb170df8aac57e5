package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
)

// SessionRepo хранит сессии администраторов в кеше под ключом <prefix>:<sessionID>
type SessionRepo struct {
	cache  repository.CacheRepository
	prefix string
}

// NewSessionRepo создает хранилище сессий поверх CacheRepository
func NewSessionRepo(cache repository.CacheRepository, prefix string) (*SessionRepo, error) {
	if cache == nil {
		return nil, fmt.Errorf("CacheRepository is required for SessionRepo")
	}
	if prefix == "" {
		prefix = "admin:session"
	}
	return &SessionRepo{cache: cache, prefix: prefix}, nil
}

func (r *SessionRepo) key(sessionID string) string {
	return r.prefix + ":" + sessionID
}

// Save сохраняет сессию с заданным временем жизни
func (r *SessionRepo) Save(ctx context.Context, sessionID string, session *entity.Session, ttl time.Duration) error {
	if err := r.cache.SetJSON(ctx, r.key(sessionID), session, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get возвращает сессию или apperrors.ErrNotFound
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	var session entity.Session
	if err := r.cache.GetJSON(ctx, r.key(sessionID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete удаляет сессию. Удаление отсутствующей сессии не считается ошибкой.
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	return r.cache.Delete(ctx, r.key(sessionID))
}
