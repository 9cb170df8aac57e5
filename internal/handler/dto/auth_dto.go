package dto

import (
	"time"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// LoginRequest - тело POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse описывает текущую сессию администратора
type SessionResponse struct {
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// LoginResponse - ответ на успешный вход. SessionToken дублирует куку
// для клиентов, которые передают сессию заголовком Authorization.
type LoginResponse struct {
	SessionResponse
	SessionToken string `json:"sessionToken"`
	Message      string `json:"message"`
}

// NewSessionResponse создает DTO сессии
func NewSessionResponse(s *entity.Session) SessionResponse {
	resp := SessionResponse{Username: s.Username, Role: s.Role}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
