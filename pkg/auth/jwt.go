package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrMalformedToken возвращается, если токен бэкенда нельзя разобрать
var ErrMalformedToken = errors.New("malformed backend token")

// BackendClaims - поля токена, который выдаёт бэкенд при входе
type BackendClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenInfo - сведения о токене, нужные консоли
type TokenInfo struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// InspectToken разбирает токен бэкенда без проверки подписи: ключ подписи есть
// только у бэкенда, а консоли нужны лишь срок действия и роль.
// Бэкенд всё равно проверяет подпись при каждом запросе.
func InspectToken(tokenString string) (*TokenInfo, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := &BackendClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
