package dto

import (
	"strings"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/editor"
	"github.com/Nayeem09864/exam-management-system/internal/service"
)

// OpenFormRequest - тело POST /api/forms. Без questionId открывается форма создания.
type OpenFormRequest struct {
	QuestionID *uint `json:"questionId"`
}

// FieldsRequest - поля вопроса формы
type FieldsRequest struct {
	QuestionText    string `json:"questionText"`
	Paragraph       string `json:"paragraph"`
	ImageURL        string `json:"imageUrl"`
	DifficultyLevel string `json:"difficultyLevel"`
	Topic           string `json:"topic"`
	Solution        string `json:"solution"`
	Explanation     string `json:"explanation"`
}

// ToFields переводит запрос в поля редактора. Уровень сложности не проверяется:
// неизвестное значение попадёт в отчёт валидации формы.
func (r FieldsRequest) ToFields() editor.Fields {
	return editor.Fields{
		QuestionText: r.QuestionText,
		Paragraph:    r.Paragraph,
		ImageURL:     r.ImageURL,
		Difficulty:   entity.DifficultyLevel(strings.ToUpper(strings.TrimSpace(r.DifficultyLevel))),
		Topic:        r.Topic,
		Solution:     r.Solution,
		Explanation:  r.Explanation,
	}
}

// OptionRequest - текст и изображение варианта
type OptionRequest struct {
	Text     string `json:"optionText"`
	ImageURL string `json:"optionImageUrl"`
}

// FormOption - вариант ответа в ответе формы
type FormOption struct {
	OptionIndex    int    `json:"optionIndex"`
	OptionText     string `json:"optionText"`
	OptionImageURL string `json:"optionImageUrl,omitempty"`
	Correct        bool   `json:"correct"`
}

// FormResponse - состояние формы вопроса
type FormResponse struct {
	ID                   string        `json:"id"`
	Mode                 string        `json:"mode"`
	QuestionID           uint          `json:"questionId,omitempty"`
	Fields               editor.Fields `json:"fields"`
	Options              []FormOption  `json:"options"`
	CorrectAnswerIndices []int         `json:"correctAnswerIndices"`
	CanRemoveOption      bool          `json:"canRemoveOption"`
	Validation           editor.Report `json:"validation"`
	Valid                bool          `json:"valid"`
}

// NewFormResponse создает DTO формы
func NewFormResponse(v *service.FormView) *FormResponse {
	correct := make(map[int]bool, len(v.Correct))
	for _, idx := range v.Correct {
		correct[idx] = true
	}

	options := make([]FormOption, len(v.Options))
	for i, o := range v.Options {
		options[i] = FormOption{
			OptionIndex:    i,
			OptionText:     o.Text,
			OptionImageURL: o.ImageURL,
			Correct:        correct[i],
		}
	}

	return &FormResponse{
		ID:                   v.ID,
		Mode:                 v.Mode.String(),
		QuestionID:           v.QuestionID,
		Fields:               v.Fields,
		Options:              options,
		CorrectAnswerIndices: v.Correct,
		CanRemoveOption:      v.CanRemove,
		Validation:           v.Report,
		Valid:                v.Report.Valid(),
	}
}

// SubmitResponse - ответ на успешную отправку формы
type SubmitResponse struct {
	Message  string           `json:"message"`
	Question *entity.Question `json:"question"`
}
