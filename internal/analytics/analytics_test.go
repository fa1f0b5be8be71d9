package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/models"
)

func ptr(t time.Time) *time.Time { return &t }

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, time.Now())

	assert.Equal(t, 0, s.TotalTasks)
	assert.Equal(t, 0, s.CompletionRate)
	assert.Equal(t, 0, s.OverdueRate)
	assert.Equal(t, 0, s.Productivity)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastMonth := now.AddDate(0, -1, 0)

	tasks := []models.Task{
		{Status: models.TaskStatusCompleted, Priority: models.PriorityHigh, CreatedAt: lastMonth},
		{Status: models.TaskStatusInProgress, Priority: models.PriorityUrgent, CreatedAt: yesterday},
		{Status: models.TaskStatusTodo, Priority: models.PriorityLow, DueDate: ptr(yesterday), CreatedAt: lastMonth},
		{Status: models.TaskStatusCancelled, Priority: models.PriorityHigh, DueDate: ptr(yesterday), CreatedAt: lastMonth},
	}

	s := Summarize(tasks, now)

	assert.Equal(t, 4, s.TotalTasks)
	assert.Equal(t, 1, s.CompletedTasks)
	assert.Equal(t, 1, s.OverdueTasks, "cancelled tasks are never overdue")
	assert.Equal(t, 1, s.HighPriorityOpen, "completed and cancelled high-priority tasks do not count")
	assert.Equal(t, 1, s.CreatedLast7Days)
	assert.Equal(t, 25, s.CompletionRate)
	assert.Equal(t, 25, s.OverdueRate)
	assert.Equal(t, 0, s.Productivity)
	assert.Equal(t, map[string]int{
		models.TaskStatusCompleted:  1,
		models.TaskStatusInProgress: 1,
		models.TaskStatusTodo:       1,
		models.TaskStatusCancelled:  1,
	}, s.ByStatus)
}

func TestSummarize_ProductivityNeverNegative(t *testing.T) {
	now := time.Now()
	overdue := now.AddDate(0, 0, -3)

	tasks := []models.Task{
		{Status: models.TaskStatusTodo, DueDate: ptr(overdue), CreatedAt: overdue},
		{Status: models.TaskStatusInProgress, DueDate: ptr(overdue), CreatedAt: overdue},
	}

	s := Summarize(tasks, now)
	assert.Equal(t, 0, s.CompletionRate)
	assert.Equal(t, 100, s.OverdueRate)
	assert.Equal(t, 0, s.Productivity)
}

func TestDistribution(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusTodo, Priority: models.PriorityLow, Category: "backend"},
		{Status: models.TaskStatusTodo, Priority: models.PriorityHigh, Category: "backend"},
		{Status: models.TaskStatusCompleted, Priority: models.PriorityHigh},
	}

	byStatus, err := Distribution(tasks, "status")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.TaskStatusTodo: 2, models.TaskStatusCompleted: 1}, byStatus)

	byPriority, err := Distribution(tasks, "priority")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.PriorityLow: 1, models.PriorityHigh: 2}, byPriority)

	byCategory, err := Distribution(tasks, "category")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"backend": 2, "uncategorized": 1}, byCategory)
}

func TestDistribution_UnknownField(t *testing.T) {
	_, err := Distribution(nil, "assignee")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDailyTrends(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{CreatedAt: now.AddDate(0, 0, -2)},
		{CreatedAt: now.AddDate(0, 0, -2), CompletedAt: ptr(now.AddDate(0, 0, -1))},
		{CreatedAt: now.AddDate(0, 0, -40)}, // outside the window
	}

	points := DailyTrends(tasks, now, 7)
	require.Len(t, points, 7)

	assert.Equal(t, "2026-08-25", points[0].Date)
	assert.Equal(t, "2026-08-31", points[6].Date)

	byDate := make(map[string]TrendPoint)
	for _, p := range points {
		byDate[p.Date] = p
	}
	assert.Equal(t, 2, byDate["2026-08-29"].Created)
	assert.Equal(t, 1, byDate["2026-08-30"].Completed)
	assert.Equal(t, 0, byDate["2026-08-31"].Created)
}

func TestDailyTrends_DefaultWindow(t *testing.T) {
	points := DailyTrends(nil, time.Now(), 0)
	assert.Len(t, points, DefaultTrendDays)
}

func TestWeeklyTrends(t *testing.T) {
	// 2026-08-31 is a Monday, start of ISO week 36.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{CreatedAt: now.AddDate(0, 0, -3), CompletedAt: ptr(now.AddDate(0, 0, -2))}, // week 35
		{CreatedAt: now.AddDate(0, 0, -3)},                                          // week 35
		{CreatedAt: now},                                                            // week 36
	}

	weeks := WeeklyTrends(tasks, now, 14)
	require.Len(t, weeks, 3)

	assert.Equal(t, "2026-W34", weeks[0].Week)
	assert.Equal(t, "2026-W35", weeks[1].Week)
	assert.Equal(t, "2026-W36", weeks[2].Week)

	assert.Equal(t, 2, weeks[1].Created)
	assert.Equal(t, 1, weeks[1].Completed)
	assert.Equal(t, 50, weeks[1].CompletionRate)

	assert.Equal(t, 1, weeks[2].Created)
	assert.Equal(t, 0, weeks[2].CompletionRate)
	assert.Equal(t, 0, weeks[0].Created)
}
