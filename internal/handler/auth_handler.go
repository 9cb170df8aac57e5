package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/handler/dto"
	"github.com/Nayeem09864/exam-management-system/internal/middleware"
	"github.com/Nayeem09864/exam-management-system/internal/service"
)

// CookieConfig - атрибуты куки сессии
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler обрабатывает вход и выход администратора
type AuthHandler struct {
	authService *service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	sessionID, session, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	maxAge := 0
	if !session.ExpiresAt.IsZero() {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	h.setCookie(c, sessionID, maxAge)

	c.JSON(http.StatusOK, dto.LoginResponse{
		SessionResponse: dto.NewSessionResponse(session),
		SessionToken:    sessionID,
		Message:         "Login successful",
	})
}

// Logout обрабатывает POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), c.GetString(middleware.SessionIDKey)); err != nil {
		handleError(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Me обрабатывает GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
