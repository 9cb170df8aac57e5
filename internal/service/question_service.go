package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
)

// ExportHeader - заголовок таблицы экспорта вопросов
var ExportHeader = []string{
	"ID", "Question", "Topic", "Difficulty", "Options", "Correct Answers", "Created By", "Created At",
}

// QuestionService предоставляет методы для работы с банком вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// List возвращает вопросы по фильтру
func (s *QuestionService) List(ctx context.Context, filter entity.QuestionFilter) ([]entity.Question, error) {
	questions, err := s.questionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []entity.Question{}
	}
	return questions, nil
}

// Get возвращает вопрос по ID
func (s *QuestionService) Get(ctx context.Context, id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Delete удаляет вопрос
func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// Topics возвращает уникальные непустые темы вопросов в алфавитном порядке
func Topics(questions []entity.Question) []string {
	seen := make(map[string]struct{}, len(questions))
	topics := make([]string, 0, len(questions))
	for _, q := range questions {
		topic := strings.TrimSpace(q.Topic)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// ExportRows возвращает строки таблицы экспорта в порядке ExportHeader.
// Правильные ответы нумеруются с единицы, как в форме.
func ExportRows(questions []entity.Question) [][]string {
	rows := make([][]string, 0, len(questions))
	for i := range questions {
		q := &questions[i]

		options := q.SortedOptions()
		texts := make([]string, len(options))
		for j, o := range options {
			texts[j] = o.OptionText
		}

		correct := make([]string, len(q.CorrectAnswerIndices))
		for j, idx := range q.CorrectAnswerIndices {
			correct[j] = strconv.Itoa(idx + 1)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", q.ID),
			q.QuestionText,
			q.Topic,
			string(q.DifficultyLevel),
			strings.Join(texts, " | "),
			strings.Join(correct, ", "),
			q.CreatedBy,
			q.CreatedAt,
		})
	}
	return rows
}
