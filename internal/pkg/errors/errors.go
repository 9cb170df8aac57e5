package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда сессия отсутствует, истекла или бэкенд отклонил токен.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (как локальных, так и возвращённых бэкендом).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, удаление вопроса,
	// на который ссылается экзамен).
	ErrConflict = errors.New("resource state conflict")

	// ErrTransport используется, когда бэкенд недоступен или ответил неожиданно.
	ErrTransport = errors.New("backend transport error")
)
