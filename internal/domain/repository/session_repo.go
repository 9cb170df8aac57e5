package repository

import (
	"context"
	"time"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// SessionRepository хранит сессии администраторов между запросами
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
	Delete(ctx context.Context, sessionID string) error
}
