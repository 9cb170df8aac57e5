package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/handler/dto"
	"github.com/Nayeem09864/exam-management-system/internal/service"
)

// DashboardHandler отдаёт сводку главной страницы
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler создает обработчик сводки
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get обрабатывает GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.dashboardService.Get(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{Dashboard: d, CompletionRate: d.CompletionRate()})
}
