package restapi

import (
	"context"
	"net/http"

	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
)

// AuthRepo реализует repository.AuthRepository через POST /api/auth/login
type AuthRepo struct {
	client *Client
}

// NewAuthRepo создает репозиторий входа
func NewAuthRepo(client *Client) *AuthRepo {
	return &AuthRepo{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login выполняет вход на бэкенде
func (r *AuthRepo) Login(ctx context.Context, username, password string) (*repository.LoginResult, error) {
	var result repository.LoginResult
	err := r.client.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{Username: username, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
