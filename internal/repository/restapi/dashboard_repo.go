package restapi

import (
	"context"
	"net/http"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// DashboardRepo реализует repository.DashboardRepository через GET /api/dashboard
type DashboardRepo struct {
	client *Client
}

// NewDashboardRepo создает репозиторий дашборда
func NewDashboardRepo(client *Client) *DashboardRepo {
	return &DashboardRepo{client: client}
}

// Get возвращает сводку текущего пользователя
func (r *DashboardRepo) Get(ctx context.Context) (*entity.Dashboard, error) {
	var dashboard entity.Dashboard
	if err := r.client.do(ctx, http.MethodGet, "/api/dashboard", nil, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
