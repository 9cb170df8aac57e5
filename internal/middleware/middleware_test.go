package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockSessionLookup struct {
	mock.Mock
}

func (m *mockSessionLookup) CurrentUser(ctx context.Context, sessionID string) (*entity.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func newProtectedRouter(lookup SessionLookup) *gin.Engine {
	r := gin.New()
	mw := NewSessionMiddleware(lookup, "admin_session")
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		session := CurrentSession(c)
		fromCtx := auth.SessionFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"username":  session.Username,
			"token":     auth.TokenFromContext(c.Request.Context()),
			"same":      session == fromCtx,
			"sessionId": c.GetString(SessionIDKey),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	session := &entity.Session{Token: "jwt", Username: "admin"}

	testCases := []struct {
		name       string
		setup      func(req *http.Request)
		lookupErr  error
		wantStatus int
		wantLookup string
	}{
		{
			name:       "без сессии",
			setup:      func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "кука",
			setup:      func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "admin_session", Value: "sid-cookie"}) },
			wantStatus: http.StatusOK,
			wantLookup: "sid-cookie",
		},
		{
			name:       "заголовок Bearer",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer sid-header") },
			wantStatus: http.StatusOK,
			wantLookup: "sid-header",
		},
		{
			name:       "неверный формат заголовка",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "sid-header") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "сессия истекла",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer old") },
			lookupErr:  apperrors.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantLookup: "old",
		},
		{
			name:       "хранилище недоступно",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer sid") },
			lookupErr:  apperrors.ErrTransport,
			wantStatus: http.StatusServiceUnavailable,
			wantLookup: "sid",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			lookup := new(mockSessionLookup)
			if tc.wantLookup != "" {
				if tc.lookupErr != nil {
					lookup.On("CurrentUser", mock.Anything, tc.wantLookup).Return(nil, tc.lookupErr)
				} else {
					lookup.On("CurrentUser", mock.Anything, tc.wantLookup).Return(session, nil)
				}
			}
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.setup(req)
			w := httptest.NewRecorder()

			// Act
			newProtectedRouter(lookup).ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"username":"admin","token":"jwt","same":true,"sessionId":"`+tc.wantLookup+`"}`, w.Body.String())
			}
			lookup.AssertExpectations(t)
		})
	}
}

func TestExtractParams(t *testing.T) {
	r := gin.New()
	r.GET("/questions/:id", ExtractUintParam("id", "questionID"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.MustGet("questionID").(uint)})
	})
	r.GET("/options/:index", ExtractIntParam("index", "optionIndex"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"index": c.MustGet("optionIndex").(int)})
	})

	testCases := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/questions/12", http.StatusOK, `{"id":12}`},
		{"/questions/0", http.StatusBadRequest, `{"error":"Invalid id"}`},
		{"/questions/abc", http.StatusBadRequest, `{"error":"Invalid id"}`},
		{"/options/0", http.StatusOK, `{"index":0}`},
		{"/options/-1", http.StatusBadRequest, `{"error":"Invalid index"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestRateLimiter_FailOpenWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	r := gin.New()
	r.POST("/login", NewRateLimiter(client).Limit(LoginRateLimitConfig(1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusNoContent, w.Code, "попытка %d", i+1)
	}
}

func TestLoginRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoginRateLimitConfig(0, 0)

	assert.Equal(t, 5, cfg.MaxRequests)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.Equal(t, "admin:rl:login", cfg.KeyPrefix)
}
