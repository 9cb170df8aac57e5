package editor

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
)

var (
	// ErrInvalidForm оборачивает все ошибки, возвращаемые Report.Err
	ErrInvalidForm = fmt.Errorf("%w: question form is invalid", apperrors.ErrValidation)

	ErrNoCorrectAnswer     = errors.New("no correct answer selected")
	ErrEmptyOptionText     = errors.New("one or more option texts empty")
	ErrMissingQuestionText = errors.New("question text is required")
	ErrMissingTopic        = errors.New("topic is required")
	ErrInvalidDifficulty   = errors.New("difficulty level must be one of EASY, MEDIUM, HARD")
)

// Report - рекомендательные флаги валидации формы. Это не ошибки управления,
// а состояние, которое форма показывает пользователю рядом с полями.
type Report struct {
	NoCorrectAnswer bool `json:"noCorrectAnswer"`
	// EmptyOptions - индексы вариантов с пустым текстом
	EmptyOptions        []int `json:"emptyOptions,omitempty"`
	AtMinimumOptions    bool  `json:"atMinimumOptions"`
	MissingQuestionText bool  `json:"missingQuestionText"`
	MissingTopic        bool  `json:"missingTopic"`
	InvalidDifficulty   bool  `json:"invalidDifficulty"`
}

// Valid сообщает, можно ли отправлять форму.
// AtMinimumOptions только предупреждает о запрете удаления и на отправку не влияет.
func (r Report) Valid() bool {
	return !r.NoCorrectAnswer &&
		len(r.EmptyOptions) == 0 &&
		!r.MissingQuestionText &&
		!r.MissingTopic &&
		!r.InvalidDifficulty
}

// Err возвращает nil для валидной формы, иначе ошибку, которая содержит
// ErrInvalidForm и каждую найденную проблему. Первым идёт отсутствие правильного ответа.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	errs := []error{ErrInvalidForm}
	if r.NoCorrectAnswer {
		errs = append(errs, ErrNoCorrectAnswer)
	}
	if len(r.EmptyOptions) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyOptionText, formatIndices(r.EmptyOptions)))
	}
	if r.MissingQuestionText {
		errs = append(errs, ErrMissingQuestionText)
	}
	if r.MissingTopic {
		errs = append(errs, ErrMissingTopic)
	}
	if r.InvalidDifficulty {
		errs = append(errs, ErrInvalidDifficulty)
	}
	return errors.Join(errs...)
}

// Validate проверяет текущее состояние формы, ничего не меняя
func (e *Editor) Validate() Report {
	r := Report{
		NoCorrectAnswer:     len(e.correct) == 0,
		AtMinimumOptions:    len(e.options) <= MinOptions,
		MissingQuestionText: isBlank(e.fields.QuestionText),
		MissingTopic:        isBlank(e.fields.Topic),
		InvalidDifficulty:   !e.fields.Difficulty.IsValid(),
	}
	for i, o := range e.options {
		if isBlank(o.Text) {
			r.EmptyOptions = append(r.EmptyOptions, i)
		}
	}
	return r
}

// CanRemove сообщает, разрешено ли сейчас удаление варианта
func (e *Editor) CanRemove() bool {
	return len(e.options) > MinOptions
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("#%d", idx+1)
	}
	return strings.Join(parts, ", ")
}
