package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/handler/dto"
	"github.com/Nayeem09864/exam-management-system/internal/middleware"
	"github.com/Nayeem09864/exam-management-system/internal/service"
)

// QuestionHandler обрабатывает запросы банка вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// filterFromQuery читает фильтры ?difficulty=&topic=&startDate=
func filterFromQuery(c *gin.Context) (entity.QuestionFilter, error) {
	difficulty, err := entity.ParseDifficulty(c.Query("difficulty"))
	if err != nil {
		return entity.QuestionFilter{}, err
	}
	startDate := c.Query("startDate")
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return entity.QuestionFilter{}, fmt.Errorf("invalid startDate %q, expected YYYY-MM-DD", startDate)
		}
	}
	return entity.QuestionFilter{
		Difficulty: difficulty,
		Topic:      c.Query("topic"),
		StartDate:  startDate,
	}, nil
}

// List обрабатывает GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuestionListResponse{
		Questions: questions,
		Topics:    service.Topics(questions),
		Total:     len(questions),
	})
}

// Get обрабатывает GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	q, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Delete обрабатывает DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		handleError(c, err)
		return
	}
	log.Printf("[QuestionHandler] Вопрос #%d удалён пользователем %s", questionID, c.GetString(middleware.UsernameKey))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Question deleted successfully"})
}

// Export выгружает вопросы по фильтру в CSV или Excel
// GET /api/questions/export?format=csv|xlsx
func (h *QuestionHandler) Export(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	rows := service.ExportRows(questions)
	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		exportXLSX(c, rows, filename)
	case "csv":
		exportCSV(c, rows, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

// exportCSV пишет таблицу в CSV с BOM для корректного UTF-8 в Excel
func exportCSV(c *gin.Context, rows [][]string, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(service.ExportHeader)
	for _, row := range rows {
		writer.Write(sanitizeRow(row))
	}
}

// exportXLSX пишет таблицу в Excel через StreamWriter
func exportXLSX(c *gin.Context, rows [][]string, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	if err := sw.SetRow("A1", toCells(service.ExportHeader)); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи заголовков: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, toCells(sanitizeRow(row))); err != nil {
			log.Printf("[QuestionHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] Ошибка при Flush: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи Excel в response: %v", err)
	}
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func sanitizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = sanitizeForExcel(v)
	}
	return out
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
