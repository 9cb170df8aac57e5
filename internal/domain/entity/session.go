package entity

import "time"

// Session - состояние входа администратора, созданное при логине и удаляемое при логауте
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt берётся из claim "exp" токена бэкенда; нулевое значение - срок не указан
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired проверяет, истёк ли токен сессии на момент now
func (s *Session) IsExpired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

