package repository

import (
	"context"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// DashboardRepository возвращает сводку для текущего пользователя
type DashboardRepository interface {
	Get(ctx context.Context) (*entity.Dashboard, error)
}
