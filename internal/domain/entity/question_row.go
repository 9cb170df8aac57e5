package entity

import (
	"sort"
	"time"
)

// QuestionRow - строка таблицы questions в схеме бэкенда (режим прямого доступа к БД)
type QuestionRow struct {
	ID              uint                `gorm:"primaryKey"`
	QuestionText    string              `gorm:"type:text;not null"`
	Paragraph       *string             `gorm:"type:text"`
	ImageURL        *string             `gorm:"column:image_url;type:text"`
	DifficultyLevel DifficultyLevel     `gorm:"not null"`
	Topic           string              `gorm:"not null;index"`
	Solution        *string             `gorm:"type:text"`
	Explanation     *string             `gorm:"type:text"`
	CreatedByID     *uint               `gorm:"column:created_by_id"`
	CreatedBy       *UserRow            `gorm:"foreignKey:CreatedByID"`
	Options         []QuestionOptionRow `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CorrectAnswers  []CorrectAnswerRow  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"not null"`
	UpdatedAt       time.Time           `gorm:"not null"`
}

// TableName определяет имя таблицы для GORM
func (QuestionRow) TableName() string {
	return "questions"
}

// QuestionOptionRow - строка таблицы question_options
type QuestionOptionRow struct {
	ID             uint    `gorm:"primaryKey"`
	QuestionID     uint    `gorm:"not null;index"`
	OptionIndex    int     `gorm:"not null"`
	OptionText     string  `gorm:"type:text;not null"`
	OptionImageURL *string `gorm:"column:option_image_url;type:text"`
}

// TableName определяет имя таблицы для GORM
func (QuestionOptionRow) TableName() string {
	return "question_options"
}

// CorrectAnswerRow - строка таблицы question_correct_answers
type CorrectAnswerRow struct {
	QuestionID  uint `gorm:"column:question_id;not null;index"`
	OptionIndex int  `gorm:"column:option_index;not null"`
}

// TableName определяет имя таблицы для GORM
func (CorrectAnswerRow) TableName() string {
	return "question_correct_answers"
}

// UserRow - минимальное представление таблицы users, нужное для поля createdBy
type UserRow struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"not null"`
}

// TableName определяет имя таблицы для GORM
func (UserRow) TableName() string {
	return "users"
}

// ToQuestion преобразует строку БД в вопрос формата REST API
func (r *QuestionRow) ToQuestion() *Question {
	q := &Question{
		ID:              r.ID,
		QuestionText:    r.QuestionText,
		Paragraph:       derefString(r.Paragraph),
		ImageURL:        derefString(r.ImageURL),
		DifficultyLevel: r.DifficultyLevel,
		Topic:           r.Topic,
		Solution:        derefString(r.Solution),
		Explanation:     derefString(r.Explanation),
		Options:         make([]QuestionOption, 0, len(r.Options)),
	}
	// Бэкенд всегда отдаёт массив, а не null
	q.CorrectAnswerIndices = make([]int, 0, len(r.CorrectAnswers))
	if r.CreatedBy != nil {
		q.CreatedBy = r.CreatedBy.Username
	}
	if !r.CreatedAt.IsZero() {
		q.CreatedAt = r.CreatedAt.Format(AuditTimeLayout)
	}
	if !r.UpdatedAt.IsZero() {
		q.UpdatedAt = r.UpdatedAt.Format(AuditTimeLayout)
	}

	for _, o := range r.Options {
		q.Options = append(q.Options, QuestionOption{
			OptionIndex:    o.OptionIndex,
			OptionText:     o.OptionText,
			OptionImageURL: derefString(o.OptionImageURL),
		})
	}
	sort.SliceStable(q.Options, func(i, j int) bool {
		return q.Options[i].OptionIndex < q.Options[j].OptionIndex
	})

	for _, c := range r.CorrectAnswers {
		q.CorrectAnswerIndices = append(q.CorrectAnswerIndices, c.OptionIndex)
	}
	return q
}

// NewQuestionRow строит строку БД из вопроса. Индексы вариантов переписываются в 0..n-1
// в порядке следования, так же как это делает бэкенд.
func NewQuestionRow(q *Question) *QuestionRow {
	row := &QuestionRow{
		ID:              q.ID,
		QuestionText:    q.QuestionText,
		Paragraph:       optionalString(q.Paragraph),
		ImageURL:        optionalString(q.ImageURL),
		DifficultyLevel: q.DifficultyLevel,
		Topic:           q.Topic,
		Solution:        optionalString(q.Solution),
		Explanation:     optionalString(q.Explanation),
	}
	row.Options, row.CorrectAnswers = ChildRows(q)
	return row
}

// ChildRows строит строки вариантов и правильных ответов для вопроса
func ChildRows(q *Question) ([]QuestionOptionRow, []CorrectAnswerRow) {
	options := make([]QuestionOptionRow, 0, len(q.Options))
	for i, o := range q.Options {
		options = append(options, QuestionOptionRow{
			QuestionID:     q.ID,
			OptionIndex:    i,
			OptionText:     o.OptionText,
			OptionImageURL: optionalString(o.OptionImageURL),
		})
	}
	correct := make([]CorrectAnswerRow, 0, len(q.CorrectAnswerIndices))
	for _, idx := range q.CorrectAnswerIndices {
		correct = append(correct, CorrectAnswerRow{QuestionID: q.ID, OptionIndex: idx})
	}
	return options, correct
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optionalString превращает пустую строку в NULL
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
