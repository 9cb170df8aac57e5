package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/editor"
	"github.com/Nayeem09864/exam-management-system/internal/handler/dto"
	"github.com/Nayeem09864/exam-management-system/internal/middleware"
	"github.com/Nayeem09864/exam-management-system/internal/service"
)

// FormHandler обрабатывает запросы к открытым формам вопросов
type FormHandler struct {
	editorService *service.EditorService
}

// NewFormHandler создает обработчик форм
func NewFormHandler(editorService *service.EditorService) *FormHandler {
	return &FormHandler{editorService: editorService}
}

func owner(c *gin.Context) string {
	return c.GetString(middleware.UsernameKey)
}

func (h *FormHandler) respond(c *gin.Context, view *service.FormView, err error) {
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFormResponse(view))
}

// Open обрабатывает POST /api/forms. С questionId открывает форму редактирования.
func (h *FormHandler) Open(c *gin.Context) {
	var req dto.OpenFormRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.QuestionID == nil {
		c.JSON(http.StatusCreated, dto.NewFormResponse(h.editorService.OpenCreate(owner(c))))
		return
	}
	if *req.QuestionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid questionId"})
		return
	}

	view, err := h.editorService.OpenEdit(c.Request.Context(), owner(c), *req.QuestionID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFormResponse(view))
}

// Get обрабатывает GET /api/forms/:formID
func (h *FormHandler) Get(c *gin.Context) {
	view, err := h.editorService.Get(owner(c), c.Param("formID"))
	h.respond(c, view, err)
}

// SetFields обрабатывает PUT /api/forms/:formID/fields
func (h *FormHandler) SetFields(c *gin.Context) {
	var req dto.FieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	view, err := h.editorService.SetFields(owner(c), c.Param("formID"), req.ToFields())
	h.respond(c, view, err)
}

// AddOption обрабатывает POST /api/forms/:formID/options
func (h *FormHandler) AddOption(c *gin.Context) {
	view, err := h.editorService.AddOption(owner(c), c.Param("formID"))
	h.respond(c, view, err)
}

// SetOption обрабатывает PUT /api/forms/:formID/options/:index
func (h *FormHandler) SetOption(c *gin.Context) {
	var req dto.OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	index := c.MustGet("optionIndex").(int)
	view, err := h.editorService.SetOption(owner(c), c.Param("formID"), index, editor.Option{Text: req.Text, ImageURL: req.ImageURL})
	h.respond(c, view, err)
}

// RemoveOption обрабатывает DELETE /api/forms/:formID/options/:index
func (h *FormHandler) RemoveOption(c *gin.Context) {
	index := c.MustGet("optionIndex").(int)
	view, err := h.editorService.RemoveOption(owner(c), c.Param("formID"), index)
	h.respond(c, view, err)
}

// ToggleCorrect обрабатывает POST /api/forms/:formID/correct/:index
func (h *FormHandler) ToggleCorrect(c *gin.Context) {
	index := c.MustGet("optionIndex").(int)
	view, err := h.editorService.ToggleCorrect(owner(c), c.Param("formID"), index)
	h.respond(c, view, err)
}

// Validation обрабатывает GET /api/forms/:formID/validation
func (h *FormHandler) Validation(c *gin.Context) {
	report, err := h.editorService.Validate(owner(c), c.Param("formID"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": report.Valid(), "validation": report})
}

// Submit обрабатывает POST /api/forms/:formID/submit
func (h *FormHandler) Submit(c *gin.Context) {
	formID := c.Param("formID")
	view, err := h.editorService.Get(owner(c), formID)
	if err != nil {
		handleError(c, err)
		return
	}

	saved, err := h.editorService.Submit(c.Request.Context(), owner(c), formID)
	if err != nil {
		handleError(c, err)
		return
	}

	if view.Mode == editor.ModeEdit {
		c.JSON(http.StatusOK, dto.SubmitResponse{Message: "Question updated successfully", Question: saved})
		return
	}
	c.JSON(http.StatusCreated, dto.SubmitResponse{Message: "Question created successfully", Question: saved})
}

// Cancel обрабатывает DELETE /api/forms/:formID
func (h *FormHandler) Cancel(c *gin.Context) {
	if err := h.editorService.Cancel(owner(c), c.Param("formID")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
