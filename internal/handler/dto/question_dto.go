package dto

import "github.com/Nayeem09864/exam-management-system/internal/domain/entity"

// QuestionListResponse - список вопросов вместе с темами для фильтра
type QuestionListResponse struct {
	Questions []entity.Question `json:"questions"`
	Topics    []string          `json:"topics"`
	Total     int               `json:"total"`
}

// MessageResponse - ответ с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// DashboardResponse - сводка вместе с вычисленной долей сданных попыток
type DashboardResponse struct {
	*entity.Dashboard
	CompletionRate float64 `json:"completionRate"`
}
