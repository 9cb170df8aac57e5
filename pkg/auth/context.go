package auth

import (
	"context"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

type sessionKey struct{}

// WithSession кладёт сессию администратора в контекст запроса.
// Клиенты бэкенда берут из неё токен (REST) или имя пользователя (прямой доступ к БД).
func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext возвращает сессию из контекста или nil
func SessionFromContext(ctx context.Context) *entity.Session {
	session, _ := ctx.Value(sessionKey{}).(*entity.Session)
	return session
}

// TokenFromContext возвращает токен бэкенда из контекста или пустую строку
func TokenFromContext(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.Token
	}
	return ""
}
