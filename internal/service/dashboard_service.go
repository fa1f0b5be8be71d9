package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/analytics"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/repository"
)

// DashboardService aggregates the caller's tasks into summary views. Each
// call reads a fresh snapshot; nothing is cached.
type DashboardService struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(tasks repository.TaskRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{tasks: tasks, logger: logger}
}

// Stats returns the headline numbers for the caller's open and recent work.
func (s *DashboardService) Stats(ctx context.Context) (*analytics.Summary, error) {
	tasks, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(tasks, time.Now())
	return &summary, nil
}

// Distribution buckets the caller's tasks by status, priority, or category.
func (s *DashboardService) Distribution(ctx context.Context, by string) (map[string]int, error) {
	tasks, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Distribution(tasks, by)
}

// Trends returns per-day created and completed counts over the window.
func (s *DashboardService) Trends(ctx context.Context, days int) ([]analytics.TrendPoint, error) {
	if days <= 0 {
		days = analytics.DefaultTrendDays
	}
	tasks, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrends(tasks, time.Now(), days), nil
}

// Weekly returns ISO-week rollups with completion rates over the window.
func (s *DashboardService) Weekly(ctx context.Context, days int) ([]analytics.WeekSummary, error) {
	if days <= 0 {
		days = analytics.DefaultTrendDays
	}
	tasks, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.WeeklyTrends(tasks, time.Now(), days), nil
}

// snapshot loads the caller's non-archived tasks across all projects.
func (s *DashboardService) snapshot(ctx context.Context) ([]models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}
	tasks, err := s.tasks.ListForUser(ctx, callerID, repository.TaskFilter{})
	if err != nil {
		return nil, domain.Internal("list tasks", err)
	}
	return tasks, nil
}
