// Package editor содержит редактор вариантов ответа формы вопроса:
// упорядоченный список вариантов и множество индексов правильных ответов,
// которые остаются согласованными при добавлении и удалении вариантов.
//
// Editor не синхронизирован: один экземпляр принадлежит одной форме,
// вызывающая сторона сериализует доступ к нему.
package editor

import (
	"fmt"
	"sort"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
)

const (
	// MinOptions - минимальное количество вариантов ответа
	MinOptions = 2
	// DefaultOptions - количество пустых вариантов у новой формы
	DefaultOptions = 4
)

var (
	// ErrIndexOutOfRange - индекс не указывает на существующий вариант
	ErrIndexOutOfRange = fmt.Errorf("%w: option index out of range", apperrors.ErrValidation)
	// ErrMinOptions - удаление оставило бы меньше MinOptions вариантов
	ErrMinOptions = fmt.Errorf("%w: cannot remove option: at minimum allowed count", apperrors.ErrValidation)
	// ErrNotEditMode - заполнение из вопроса доступно только в режиме редактирования
	ErrNotEditMode = fmt.Errorf("%w: form is not in edit mode", apperrors.ErrConflict)
	// ErrAlreadySeeded - форма уже заполнена или изменена пользователем
	ErrAlreadySeeded = fmt.Errorf("%w: form already seeded or edited", apperrors.ErrConflict)
)

// Mode - режим формы, выбирается один раз при создании
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// String возвращает имя режима для логов и JSON
func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Option - вариант ответа. Идентичность варианта - его позиция в списке.
type Option struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Fields - поля вопроса, которые редактируются вместе с вариантами
type Fields struct {
	QuestionText string                 `json:"questionText"`
	Paragraph    string                 `json:"paragraph,omitempty"`
	ImageURL     string                 `json:"imageUrl,omitempty"`
	Difficulty   entity.DifficultyLevel `json:"difficultyLevel"`
	Topic        string                 `json:"topic"`
	Solution     string                 `json:"solution,omitempty"`
	Explanation  string                 `json:"explanation,omitempty"`
}

// Editor хранит состояние одной формы вопроса
type Editor struct {
	mode       Mode
	questionID uint
	fields     Fields
	options    []Option
	correct    map[int]struct{}
	// touched выставляется первой мутацией, после неё SeedFromQuestion запрещён
	touched bool
	seeded  bool
}

// NewCreate создает форму нового вопроса с DefaultOptions пустыми вариантами
func NewCreate() *Editor {
	e := &Editor{
		mode:    ModeCreate,
		fields:  Fields{Difficulty: entity.DifficultyEasy},
		options: make([]Option, 0, DefaultOptions),
		correct: make(map[int]struct{}),
	}
	for i := 0; i < DefaultOptions; i++ {
		e.options = append(e.options, Option{})
	}
	return e
}

// NewEdit создает форму редактирования существующего вопроса.
// До вызова SeedFromQuestion варианты пусты.
func NewEdit(questionID uint) *Editor {
	return &Editor{
		mode:       ModeEdit,
		questionID: questionID,
		fields:     Fields{Difficulty: entity.DifficultyEasy},
		correct:    make(map[int]struct{}),
	}
}

// Mode возвращает режим формы
func (e *Editor) Mode() Mode { return e.mode }

// QuestionID возвращает ID редактируемого вопроса (0 в режиме создания)
func (e *Editor) QuestionID() uint { return e.questionID }

// Len возвращает текущее количество вариантов
func (e *Editor) Len() int { return len(e.options) }

// Fields возвращает поля вопроса
func (e *Editor) Fields() Fields { return e.fields }

// Options возвращает копию списка вариантов
func (e *Editor) Options() []Option {
	out := make([]Option, len(e.options))
	copy(out, e.options)
	return out
}

// CorrectIndices возвращает индексы правильных ответов по возрастанию
func (e *Editor) CorrectIndices() []int {
	out := make([]int, 0, len(e.correct))
	for idx := range e.correct {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// AddOption добавляет пустой вариант в конец. Существующие индексы не меняются.
func (e *Editor) AddOption() {
	e.touched = true
	e.options = append(e.options, Option{})
}

// RemoveOption удаляет вариант i и сдвигает индексы правильных ответов,
// стоявших после него, так что они указывают на те же варианты, что и до удаления.
// При нарушении предусловий состояние не меняется.
func (e *Editor) RemoveOption(i int) error {
	if !e.validIndex(i) {
		return ErrIndexOutOfRange
	}
	if len(e.options) <= MinOptions {
		return ErrMinOptions
	}

	e.touched = true
	e.options = append(e.options[:i], e.options[i+1:]...)
	e.correct = toSet(ShiftAfterRemoval(e.CorrectIndices(), i))
	return nil
}

// ToggleCorrect переключает отметку правильного ответа у варианта i
func (e *Editor) ToggleCorrect(i int) error {
	if !e.validIndex(i) {
		return ErrIndexOutOfRange
	}
	e.touched = true
	if _, ok := e.correct[i]; ok {
		delete(e.correct, i)
	} else {
		e.correct[i] = struct{}{}
	}
	return nil
}

// IsCorrect проверяет, отмечен ли вариант i как правильный
func (e *Editor) IsCorrect(i int) bool {
	_, ok := e.correct[i]
	return ok
}

// SetOption заменяет текст и картинку варианта i, не трогая отметки
func (e *Editor) SetOption(i int, opt Option) error {
	if !e.validIndex(i) {
		return ErrIndexOutOfRange
	}
	e.touched = true
	e.options[i] = opt
	return nil
}

// SetFields заменяет поля вопроса целиком
func (e *Editor) SetFields(f Fields) {
	e.touched = true
	e.fields = f
}

// SeedFromQuestion заполняет форму из сохранённого вопроса: варианты в порядке
// optionIndex и правильные ответы целиком заменяются. Индексы правильных ответов
// вне диапазона и дубликаты отбрасываются. Разрешён один раз и только до правок.
func (e *Editor) SeedFromQuestion(q *entity.Question) error {
	if e.mode != ModeEdit {
		return ErrNotEditMode
	}
	if e.seeded || e.touched {
		return ErrAlreadySeeded
	}

	sorted := q.SortedOptions()
	options := make([]Option, 0, len(sorted))
	for _, o := range sorted {
		options = append(options, Option{Text: o.OptionText, ImageURL: o.OptionImageURL})
	}

	correct := make(map[int]struct{}, len(q.CorrectAnswerIndices))
	for _, idx := range q.CorrectAnswerIndices {
		if idx >= 0 && idx < len(options) {
			correct[idx] = struct{}{}
		}
	}

	e.options = options
	e.correct = correct
	e.fields = Fields{
		QuestionText: q.QuestionText,
		Paragraph:    q.Paragraph,
		ImageURL:     q.ImageURL,
		Difficulty:   q.DifficultyLevel,
		Topic:        q.Topic,
		Solution:     q.Solution,
		Explanation:  q.Explanation,
	}
	if q.ID != 0 {
		e.questionID = q.ID
	}
	e.seeded = true
	return nil
}

// ToSubmission строит вопрос для отправки на бэкенд: варианты переиндексированы
// 0..n-1 в текущем порядке, правильные ответы отсортированы. Состояние не меняется.
func (e *Editor) ToSubmission() (*entity.Question, error) {
	if err := e.Validate().Err(); err != nil {
		return nil, err
	}

	q := &entity.Question{
		QuestionText:         e.fields.QuestionText,
		Paragraph:            e.fields.Paragraph,
		ImageURL:             e.fields.ImageURL,
		DifficultyLevel:      e.fields.Difficulty,
		Topic:                e.fields.Topic,
		Solution:             e.fields.Solution,
		Explanation:          e.fields.Explanation,
		Options:              make([]entity.QuestionOption, 0, len(e.options)),
		CorrectAnswerIndices: e.CorrectIndices(),
	}
	if e.mode == ModeEdit {
		q.ID = e.questionID
	}
	for i, o := range e.options {
		q.Options = append(q.Options, entity.QuestionOption{
			OptionIndex:    i,
			OptionText:     o.Text,
			OptionImageURL: o.ImageURL,
		})
	}
	return q, nil
}

func (e *Editor) validIndex(i int) bool {
	return i >= 0 && i < len(e.options)
}

// ShiftAfterRemoval возвращает индексы правильных ответов после удаления варианта
// removed: сам removed выбрасывается, индексы больше него уменьшаются на единицу,
// меньшие остаются как есть. Результат отсортирован, входной срез не меняется.
func ShiftAfterRemoval(correct []int, removed int) []int {
	out := make([]int, 0, len(correct))
	for _, idx := range correct {
		switch {
		case idx < removed:
			out = append(out, idx)
		case idx > removed:
			out = append(out, idx-1)
		}
	}
	sort.Ints(out)
	return out
}

func toSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}

