package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

// startDateLayout - формат параметра startDate фильтра
const startDateLayout = "2006-01-02"

// QuestionRepo реализует repository.QuestionRepository напрямую поверх схемы бэкенда
type QuestionRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db, now: time.Now}
}

// withChildren подгружает варианты, правильные ответы и автора
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("option_index") }).
		Preload("CorrectAnswers", func(db *gorm.DB) *gorm.DB { return db.Order("option_index") }).
		Preload("CreatedBy")
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var row entity.QuestionRow
	err := withChildren(r.db.WithContext(ctx)).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Question not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return row.ToQuestion(), nil
}

// List возвращает вопросы, отфильтрованные так же, как это делает бэкенд
func (r *QuestionRepo) List(ctx context.Context, filter entity.QuestionFilter) ([]entity.Question, error) {
	where, args, err := filterClause(filter, r.now())
	if err != nil {
		return nil, err
	}

	query := withChildren(r.db.WithContext(ctx)).Order("id")
	if where != "" {
		query = query.Where(where, args...)
	}

	var rows []entity.QuestionRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	questions := make([]entity.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, *rows[i].ToQuestion())
	}
	return questions, nil
}

// filterClause выбирает условие выборки. Фильтры не складываются: применяется
// первая подходящая комбинация (сложность+тема, сложность+дата, сложность, тема, дата).
func filterClause(f entity.QuestionFilter, now time.Time) (string, []interface{}, error) {
	var start time.Time
	if f.StartDate != "" {
		parsed, err := time.ParseInLocation(startDateLayout, f.StartDate, now.Location())
		if err != nil {
			return "", nil, fmt.Errorf("%w: invalid startDate %q, expected YYYY-MM-DD", apperrors.ErrValidation, f.StartDate)
		}
		start = parsed
	}

	switch {
	case f.Difficulty != "" && f.Topic != "":
		return "difficulty_level = ? AND topic = ?", []interface{}{f.Difficulty, f.Topic}, nil
	case f.Difficulty != "" && f.StartDate != "":
		return "difficulty_level = ? AND created_at >= ?", []interface{}{f.Difficulty, start}, nil
	case f.Difficulty != "":
		return "difficulty_level = ?", []interface{}{f.Difficulty}, nil
	case f.Topic != "":
		return "topic = ?", []interface{}{f.Topic}, nil
	case f.StartDate != "":
		return "created_at BETWEEN ? AND ?", []interface{}{start, now}, nil
	default:
		return "", nil, nil
	}
}

// Create создает вопрос от имени пользователя текущей сессии
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) (*entity.Question, error) {
	session := auth.SessionFromContext(ctx)
	if session == nil || session.Username == "" {
		return nil, fmt.Errorf("%w: no active session", apperrors.ErrUnauthorized)
	}

	row := entity.NewQuestionRow(question)
	row.ID = 0
	now := r.now()
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.UserRow
		if err := tx.Where("username = ?", session.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: User not found", apperrors.ErrValidation)
			}
			return err
		}
		row.CreatedByID = &user.ID

		options, correct := row.Options, row.CorrectAnswers
		row.Options, row.CorrectAnswers = nil, nil
		if err := tx.Omit("CreatedBy").Create(row).Error; err != nil {
			return err
		}
		return insertChildren(tx, row.ID, options, correct)
	})
	if err != nil {
		log.Printf("[QuestionRepo] Ошибка создания вопроса пользователем %s: %v", session.Username, err)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: question already exists", apperrors.ErrConflict)
		}
		return nil, err
	}
	return r.GetByID(ctx, row.ID)
}

// Update перезаписывает поля вопроса и полностью заменяет варианты и правильные ответы
func (r *QuestionRepo) Update(ctx context.Context, id uint, question *entity.Question) (*entity.Question, error) {
	row := entity.NewQuestionRow(question)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.QuestionRow
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: Question not found", apperrors.ErrNotFound)
			}
			return err
		}

		updates := map[string]interface{}{
			"question_text":    row.QuestionText,
			"paragraph":        row.Paragraph,
			"image_url":        row.ImageURL,
			"difficulty_level": row.DifficultyLevel,
			"topic":            row.Topic,
			"solution":         row.Solution,
			"explanation":      row.Explanation,
			"updated_at":       r.now(),
		}
		if err := tx.Model(&entity.QuestionRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", id).Delete(&entity.CorrectAnswerRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&entity.QuestionOptionRow{}).Error; err != nil {
			return err
		}
		return insertChildren(tx, id, row.Options, row.CorrectAnswers)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func insertChildren(tx *gorm.DB, questionID uint, options []entity.QuestionOptionRow, correct []entity.CorrectAnswerRow) error {
	for i := range options {
		options[i].ID = 0
		options[i].QuestionID = questionID
	}
	for i := range correct {
		correct[i].QuestionID = questionID
	}
	if len(options) > 0 {
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
	}
	if len(correct) > 0 {
		if err := tx.Create(&correct).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete удаляет вопрос вместе с вариантами. Вопрос, на который ссылаются экзамены,
// удалить нельзя: возвращается ErrConflict.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.QuestionRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: Question not found", apperrors.ErrNotFound)
		}

		if err := tx.Where("question_id = ?", id).Delete(&entity.CorrectAnswerRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&entity.QuestionOptionRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.QuestionRow{}, id).Error
	})
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: question #%d is used by an exam", apperrors.ErrConflict, id)
	}
	return err
}
