package repository

import (
	"context"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами на бэкенде.
// GetByID и Create/Update - это коллабораторы "загрузить вопрос" и "отправить вопрос" формы.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	List(ctx context.Context, filter entity.QuestionFilter) ([]entity.Question, error)
	Create(ctx context.Context, question *entity.Question) (*entity.Question, error)
	Update(ctx context.Context, id uint, question *entity.Question) (*entity.Question, error)
	Delete(ctx context.Context, id uint) error
}
