package repository

import "context"

// LoginResult - ответ бэкенда на успешный вход
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// AuthRepository выполняет вход на бэкенде
type AuthRepository interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
