package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

// backendError повторяет поведение ошибок REST клиента: текст бэкенда + категория
type backendError struct {
	msg  string
	kind error
}

func (e *backendError) Error() string { return e.msg }
func (e *backendError) Unwrap() error { return e.kind }

type fakeAuthRepo struct{}

func (fakeAuthRepo) Login(_ context.Context, username, password string) (*repository.LoginResult, error) {
	if username != "admin" || password != "secret" {
		return nil, &backendError{msg: "Invalid username or password", kind: apperrors.ErrUnauthorized}
	}
	return &repository.LoginResult{Token: "backend-jwt", Username: "admin", Role: "ADMIN"}, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) Save(_ context.Context, sid string, s *entity.Session, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = s
	return nil
}

func (r *fakeSessionRepo) Get(_ context.Context, sid string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	return nil
}

// fakeQuestionRepo - банк вопросов в памяти. failWith заставляет запись завершаться ошибкой.
type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[uint]*entity.Question
	nextID    uint
	inUse     map[uint]bool
	failWith  error
	lastToken string
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uint]*entity.Question), nextID: 100, inUse: make(map[uint]bool)}
}

func (r *fakeQuestionRepo) put(q *entity.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = q
}

func (r *fakeQuestionRepo) get(id uint) *entity.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions[id]
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id uint) (*entity.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, &backendError{msg: "Question not found: Question not found", kind: apperrors.ErrNotFound}
	}
	copied := *q
	return &copied, nil
}

func (r *fakeQuestionRepo) List(_ context.Context, filter entity.QuestionFilter) ([]entity.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Question{}
	for id := uint(1); id <= r.nextID; id++ {
		q, ok := r.questions[id]
		if !ok {
			continue
		}
		if filter.Topic != "" && q.Topic != filter.Topic {
			continue
		}
		if filter.Difficulty != "" && q.DifficultyLevel != filter.Difficulty {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (r *fakeQuestionRepo) Create(ctx context.Context, q *entity.Question) (*entity.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastToken = auth.TokenFromContext(ctx)
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.nextID++
	saved := *q
	saved.ID = r.nextID
	saved.CreatedBy = "admin"
	r.questions[saved.ID] = &saved
	return &saved, nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, id uint, q *entity.Question) (*entity.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if _, ok := r.questions[id]; !ok {
		return nil, &backendError{msg: "Question not found", kind: apperrors.ErrNotFound}
	}
	saved := *q
	saved.ID = id
	r.questions[id] = &saved
	return &saved, nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inUse[id] {
		return fmt.Errorf("%w: question #%d is used by an exam", apperrors.ErrConflict, id)
	}
	if _, ok := r.questions[id]; !ok {
		return &backendError{msg: "Question not found", kind: apperrors.ErrNotFound}
	}
	delete(r.questions, id)
	return nil
}

type fakeDashboardRepo struct {
	err error
}

func (r fakeDashboardRepo) Get(context.Context) (*entity.Dashboard, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &entity.Dashboard{TotalExams: 3, TotalAttempts: 10, SubmittedAttempts: 8}, nil
}
