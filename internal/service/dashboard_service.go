package service

import (
	"context"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
)

// DashboardService возвращает сводку по экзаменам
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService создает новый сервис сводки
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// Get возвращает сводку. Пустые списки приводятся к [] для клиента.
func (s *DashboardService) Get(ctx context.Context) (*entity.Dashboard, error) {
	d, err := s.dashboardRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if d.Exams == nil {
		d.Exams = []entity.ExamSummary{}
	}
	if d.RecentResults == nil {
		d.RecentResults = []entity.ResultSummary{}
	}
	return d, nil
}
