package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

const questionsPath = "/api/questions"

// QuestionRepo реализует repository.QuestionRepository через /api/questions
type QuestionRepo struct {
	client *Client
}

// NewQuestionRepo создает репозиторий вопросов
func NewQuestionRepo(client *Client) *QuestionRepo {
	return &QuestionRepo{client: client}
}

// GetByID загружает вопрос
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var q entity.Question
	if err := r.client.do(ctx, http.MethodGet, questionPath(id), nil, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// List возвращает вопросы с учётом фильтров; пустые фильтры не передаются
func (r *QuestionRepo) List(ctx context.Context, filter entity.QuestionFilter) ([]entity.Question, error) {
	query := url.Values{}
	if filter.Difficulty != "" {
		query.Set("difficulty", string(filter.Difficulty))
	}
	if filter.Topic != "" {
		query.Set("topic", filter.Topic)
	}
	if filter.StartDate != "" {
		query.Set("startDate", filter.StartDate)
	}

	var questions []entity.Question
	if err := r.client.do(ctx, http.MethodGet, questionsPath, query, nil, &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []entity.Question{}
	}
	return questions, nil
}

// Create создает вопрос и возвращает сохранённую версию
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) (*entity.Question, error) {
	var created entity.Question
	if err := r.client.do(ctx, http.MethodPost, questionsPath, nil, question, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update заменяет вопрос id и возвращает сохранённую версию
func (r *QuestionRepo) Update(ctx context.Context, id uint, question *entity.Question) (*entity.Question, error) {
	var updated entity.Question
	if err := r.client.do(ctx, http.MethodPut, questionPath(id), nil, question, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete удаляет вопрос. Тело ответа бэкенда - текст, он не разбирается.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return r.client.do(ctx, http.MethodDelete, questionPath(id), nil, nil, nil)
}

func questionPath(id uint) string {
	return fmt.Sprintf("%s/%d", questionsPath, id)
}
