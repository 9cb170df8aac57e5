// Package restapi - клиент REST API бэкенда системы экзаменов.
// Каждый вызов - один запрос без повторов; токен берётся из сессии в контексте.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
	"github.com/Nayeem09864/exam-management-system/pkg/auth"
)

// maxErrorBody ограничивает, сколько байт тела ошибки попадёт в сообщение
const maxErrorBody = 4 << 10

// Client выполняет JSON-запросы к бэкенду
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient создает клиент для базового URL бэкенда с таймаутом запроса
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BackendError - ответ бэкенда с кодом ошибки. Error() возвращает сообщение бэкенда
// без изменений, чтобы его можно было показать пользователю.
type BackendError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
}

// Unwrap позволяет сопоставлять ошибку с apperrors через errors.Is
func (e *BackendError) Unwrap() error {
	return e.kind
}

// do выполняет запрос. in кодируется в JSON, если не nil; ответ декодируется в out, если out не nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := auth.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[RestAPI] %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", apperrors.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeHTTPError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: unexpected response from %s %s: %v", apperrors.ErrTransport, method, path, err)
	}
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeHTTPError строит BackendError. Бэкенд отвечает либо текстом,
// либо JSON с полем message (или error).
func decodeHTTPError(status int, body []byte) error {
	message := extractMessage(body)
	return &BackendError{
		StatusCode: status,
		Message:    message,
		kind:       kindForStatus(status),
	}
}

func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var resp errorResponse
		if err := json.Unmarshal(trimmed, &resp); err == nil {
			if resp.Message != "" {
				return resp.Message
			}
			if resp.Error != "" {
				return resp.Error
			}
		}
	}
	if len(trimmed) > maxErrorBody {
		trimmed = trimmed[:maxErrorBody]
	}
	return string(trimmed)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case status == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case status == http.StatusForbidden:
		return apperrors.ErrForbidden
	case status == http.StatusConflict:
		return apperrors.ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.ErrValidation
	default:
		return apperrors.ErrTransport
	}
}

// StatusCode возвращает HTTP код ответа бэкенда из ошибки или 0
func StatusCode(err error) int {
	var be *BackendError
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}
