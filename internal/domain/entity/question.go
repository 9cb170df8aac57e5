package entity

import (
	"fmt"
	"sort"
	"strings"
)

// AuditTimeLayout - формат дат createdAt/updatedAt, который отдаёт бэкенд
const AuditTimeLayout = "2006-01-02 15:04:05"

// DifficultyLevel - уровень сложности вопроса
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyMedium DifficultyLevel = "MEDIUM"
	DifficultyHard   DifficultyLevel = "HARD"
)

// IsValid проверяет, что уровень сложности один из EASY/MEDIUM/HARD
func (d DifficultyLevel) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty разбирает строку без учёта регистра.
// Пустая строка допустима и означает "без фильтра".
func ParseDifficulty(s string) (DifficultyLevel, error) {
	if s == "" {
		return "", nil
	}
	d := DifficultyLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("unknown difficulty level %q", s)
	}
	return d, nil
}

// QuestionOption - вариант ответа в формате бэкенда
type QuestionOption struct {
	OptionIndex    int    `json:"optionIndex"`
	OptionText     string `json:"optionText"`
	OptionImageURL string `json:"optionImageUrl,omitempty"`
}

// Question представляет вопрос в формате REST API бэкенда
type Question struct {
	ID                   uint             `json:"id,omitempty"`
	QuestionText         string           `json:"questionText"`
	Paragraph            string           `json:"paragraph,omitempty"`
	ImageURL             string           `json:"imageUrl,omitempty"`
	Options              []QuestionOption `json:"options"`
	CorrectAnswerIndices []int            `json:"correctAnswerIndices"`
	DifficultyLevel      DifficultyLevel  `json:"difficultyLevel"`
	Topic                string           `json:"topic"`
	Solution             string           `json:"solution,omitempty"`
	Explanation          string           `json:"explanation,omitempty"`
	CreatedBy            string           `json:"createdBy,omitempty"`
	CreatedAt            string           `json:"createdAt,omitempty"`
	UpdatedAt            string           `json:"updatedAt,omitempty"`
}

// SortedOptions возвращает копию вариантов, упорядоченную по OptionIndex
func (q *Question) SortedOptions() []QuestionOption {
	sorted := make([]QuestionOption, len(q.Options))
	copy(sorted, q.Options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OptionIndex < sorted[j].OptionIndex
	})
	return sorted
}

// QuestionFilter - фильтры списка вопросов (все поля опциональны)
type QuestionFilter struct {
	Difficulty DifficultyLevel
	Topic      string
	// StartDate в формате YYYY-MM-DD
	StartDate string
}
