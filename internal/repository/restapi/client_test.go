package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func authedContext() context.Context {
	return auth.WithSession(context.Background(), &entity.Session{Token: "jwt-token", Username: "admin"})
}

func TestNewClient_TrimsBaseURLAndSetsTimeout(t *testing.T) {
	c := NewClient("http://backend:8080///", 1500*time.Millisecond)

	assert.Equal(t, "http://backend:8080", c.baseURL)
	assert.Equal(t, 1500*time.Millisecond, c.client.Timeout)
}

func TestQuestionRepo_GetByID(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/questions/5", r.URL.Path)
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":5,"questionText":"Q","topic":"T","difficultyLevel":"HARD",
			"options":[{"optionIndex":0,"optionText":"A"},{"optionIndex":1,"optionText":"B","optionImageUrl":"u"}],
			"correctAnswerIndices":[1],"createdBy":"admin","createdAt":"2024-01-02 10:00:00"}`))
	})
	repo := NewQuestionRepo(client)

	// Act
	q, err := repo.GetByID(authedContext(), 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(5), q.ID)
	assert.Equal(t, entity.DifficultyHard, q.DifficultyLevel)
	require.Len(t, q.Options, 2)
	assert.Equal(t, "u", q.Options[1].OptionImageURL)
	assert.Equal(t, []int{1}, q.CorrectAnswerIndices)
}

func TestQuestionRepo_GetByID_NotFoundKeepsBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Question not found: Question not found"))
	})

	_, err := NewQuestionRepo(client).GetByID(authedContext(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Question not found: Question not found", err.Error(), "сообщение бэкенда передаётся дословно")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestQuestionRepo_ListPassesOnlySetFilters(t *testing.T) {
	testCases := []struct {
		name     string
		filter   entity.QuestionFilter
		expected string
	}{
		{"без фильтров", entity.QuestionFilter{}, ""},
		{"сложность и тема", entity.QuestionFilter{Difficulty: entity.DifficultyEasy, Topic: "Java"}, "difficulty=EASY&topic=Java"},
		{"дата", entity.QuestionFilter{StartDate: "2024-03-01"}, "startDate=2024-03-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/questions", r.URL.Path)
				assert.Equal(t, tc.expected, r.URL.RawQuery)
				w.Write([]byte(`[{"id":1,"topic":"Java"}]`))
			})

			questions, err := NewQuestionRepo(client).List(authedContext(), tc.filter)

			require.NoError(t, err)
			require.Len(t, questions, 1)
			assert.Equal(t, "Java", questions[0].Topic)
		})
	}
}

func TestQuestionRepo_ListNullBodyIsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	questions, err := NewQuestionRepo(client).List(authedContext(), entity.QuestionFilter{})

	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestQuestionRepo_CreateSendsWireShape(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Q", body["questionText"])
		assert.Equal(t, []interface{}{float64(0), float64(2)}, body["correctAnswerIndices"])
		_, hasParagraph := body["paragraph"]
		assert.False(t, hasParagraph, "пустые опциональные поля не отправляются")
		options := body["options"].([]interface{})
		first := options[0].(map[string]interface{})
		assert.Equal(t, float64(0), first["optionIndex"])
		_, hasImage := first["optionImageUrl"]
		assert.False(t, hasImage)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":11,"questionText":"Q"}`))
	})
	q := &entity.Question{
		QuestionText:         "Q",
		Topic:                "T",
		DifficultyLevel:      entity.DifficultyEasy,
		Options:              []entity.QuestionOption{{OptionIndex: 0, OptionText: "A"}, {OptionIndex: 1, OptionText: "B"}, {OptionIndex: 2, OptionText: "C"}},
		CorrectAnswerIndices: []int{0, 2},
	}

	// Act
	created, err := NewQuestionRepo(client).Create(authedContext(), q)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(11), created.ID)
}

func TestQuestionRepo_UpdateValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/questions/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":400,"error":"Bad Request","message":"At least one correct answer is required"}`))
	})

	_, err := NewQuestionRepo(client).Update(authedContext(), 3, &entity.Question{})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "At least one correct answer is required", err.Error())
}

func TestQuestionRepo_DeleteIgnoresTextBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte("Question deleted successfully"))
	})

	assert.NoError(t, NewQuestionRepo(client).Delete(authedContext(), 3))
}

func TestAuthRepo_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "при входе токена ещё нет")
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"token":null,"message":"Invalid username or password"}`))
			return
		}
		w.Write([]byte(`{"token":"jwt","username":"admin","role":"ADMIN","message":"Login successful"}`))
	})
	repo := NewAuthRepo(client)

	t.Run("успешный вход", func(t *testing.T) {
		res, err := repo.Login(context.Background(), "admin", "secret")
		require.NoError(t, err)
		assert.Equal(t, "jwt", res.Token)
		assert.Equal(t, "ADMIN", res.Role)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		res, err := repo.Login(context.Background(), "admin", "wrong")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Equal(t, "Invalid username or password", err.Error())
	})
}

func TestDashboardRepo_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard", r.URL.Path)
		w.Write([]byte(`{"totalExams":2,"totalAttempts":4,"submittedAttempts":3,
			"exams":[{"examId":1,"examName":"Java","averageScore":75.5,"isActive":true}],"recentResults":[]}`))
	})

	d, err := NewDashboardRepo(client).Get(authedContext())

	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalExams)
	require.Len(t, d.Exams, 1)
	require.NotNil(t, d.Exams[0].AverageScore)
	assert.InDelta(t, 75.5, *d.Exams[0].AverageScore, 0.001)
	assert.InDelta(t, 75.0, d.CompletionRate(), 0.001)
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("бэкенд недоступен", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewDashboardRepo(NewClient(url, time.Second)).Get(context.Background())

		assert.ErrorIs(t, err, apperrors.ErrTransport)
	})

	t.Run("некорректный JSON", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})

		_, err := NewDashboardRepo(client).Get(context.Background())

		assert.ErrorIs(t, err, apperrors.ErrTransport)
	})

	t.Run("ошибка 500 без тела", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := NewDashboardRepo(client).Get(context.Background())

		var be *BackendError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, "backend returned HTTP 500", err.Error())
		assert.ErrorIs(t, err, apperrors.ErrTransport)
	})
}

func TestKindForStatus(t *testing.T) {
	testCases := map[int]error{
		http.StatusNotFound:            apperrors.ErrNotFound,
		http.StatusUnauthorized:        apperrors.ErrUnauthorized,
		http.StatusForbidden:           apperrors.ErrForbidden,
		http.StatusConflict:            apperrors.ErrConflict,
		http.StatusBadRequest:          apperrors.ErrValidation,
		http.StatusUnprocessableEntity: apperrors.ErrValidation,
		http.StatusBadGateway:          apperrors.ErrTransport,
	}
	for status, expected := range testCases {
		assert.Equal(t, expected, kindForStatus(status), "статус %d", status)
	}
}
