package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

// Ключи контекста Gin, которые выставляет RequireAuth
const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
	UsernameKey  = "username"
)

// SessionLookup находит активную сессию по ID (реализуется AuthService)
type SessionLookup interface {
	CurrentUser(ctx context.Context, sessionID string) (*entity.Session, error)
}

// SessionMiddleware пускает к защищённым маршрутам только вошедших администраторов
type SessionMiddleware struct {
	sessions   SessionLookup
	cookieName string
}

// NewSessionMiddleware создает middleware сессий
func NewSessionMiddleware(sessions SessionLookup, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookieName: cookieName}
}

// SessionID возвращает ID сессии из куки или заголовка Authorization: Bearer {id}
func (m *SessionMiddleware) SessionID(c *gin.Context) string {
	if sid, err := c.Cookie(m.cookieName); err == nil && sid != "" {
		return sid
	}
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// RequireAuth проверяет сессию. Без сессии запрос получает 401, и клиент
// отправляет пользователя на страницу входа.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := m.SessionID(c)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "session_missing"})
			return
		}

		session, err := m.sessions.CurrentUser(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again", "error_type": "session_invalid"})
				return
			}
			log.Printf("[SessionMiddleware] Ошибка чтения сессии: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session storage unavailable"})
			return
		}

		c.Set(SessionKey, session)
		c.Set(SessionIDKey, sid)
		c.Set(UsernameKey, session.Username)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// CurrentSession возвращает сессию, положенную RequireAuth, или nil
func CurrentSession(c *gin.Context) *entity.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*entity.Session)
	return session
}
