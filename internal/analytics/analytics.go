// Package analytics computes read-side dashboard statistics from a task
// snapshot. Every function is pure and tolerates empty input.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/models"
)

// Summary is the headline dashboard block for a user's tasks.
type Summary struct {
	TotalTasks       int            `json:"totalTasks"`
	CompletedTasks   int            `json:"completedTasks"`
	OverdueTasks     int            `json:"overdueTasks"`
	HighPriorityOpen int            `json:"highPriorityOpen"`
	CreatedLast7Days int            `json:"createdLast7Days"`
	ByStatus         map[string]int `json:"byStatus"`
	ByPriority       map[string]int `json:"byPriority"`
	CompletionRate   int            `json:"completionRate"`
	OverdueRate      int            `json:"overdueRate"`
	Productivity     int            `json:"productivity"`
}

// Summarize computes counts and rates over the snapshot. All rates are 0 when
// the snapshot is empty; productivity never goes negative.
func Summarize(tasks []models.Task, now time.Time) Summary {
	s := Summary{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	weekAgo := now.AddDate(0, 0, -7)
	for i := range tasks {
		t := &tasks[i]
		s.TotalTasks++
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++

		if t.Status == models.TaskStatusCompleted {
			s.CompletedTasks++
		}
		if t.IsOverdue(now) {
			s.OverdueTasks++
		}
		if t.IsOpen() && (t.Priority == models.PriorityHigh || t.Priority == models.PriorityUrgent) {
			s.HighPriorityOpen++
		}
		if t.CreatedAt.After(weekAgo) {
			s.CreatedLast7Days++
		}
	}

	s.CompletionRate = ratePercent(s.CompletedTasks, s.TotalTasks)
	s.OverdueRate = ratePercent(s.OverdueTasks, s.TotalTasks)
	s.Productivity = s.CompletionRate - s.OverdueRate
	if s.Productivity < 0 {
		s.Productivity = 0
	}

	return s
}

// Distribution group-counts tasks by status, priority, or category. Tasks with
// an empty category land under "uncategorized".
func Distribution(tasks []models.Task, by string) (map[string]int, error) {
	key := func(t *models.Task) string { return "" }
	switch by {
	case "status":
		key = func(t *models.Task) string { return t.Status }
	case "priority":
		key = func(t *models.Task) string { return t.Priority }
	case "category":
		key = func(t *models.Task) string {
			if t.Category == "" {
				return "uncategorized"
			}
			return t.Category
		}
	default:
		return nil, domain.Validationf("unknown distribution field %q", by)
	}

	counts := make(map[string]int)
	for i := range tasks {
		counts[key(&tasks[i])]++
	}
	return counts, nil
}

// TrendPoint is one day of task activity.
type TrendPoint struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// DefaultTrendDays is the trend window used when the caller supplies none.
const DefaultTrendDays = 30

// DailyTrends returns one point per day for the trailing window ending today.
// Creation counts come from createdAt, completion counts from completedAt.
func DailyTrends(tasks []models.Task, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}

	created := make(map[string]int)
	completed := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		created[dayKey(t.CreatedAt)]++
		if t.CompletedAt != nil {
			completed[dayKey(*t.CompletedAt)]++
		}
	}

	points := make([]TrendPoint, 0, days)
	for d := days - 1; d >= 0; d-- {
		key := dayKey(now.AddDate(0, 0, -d))
		points = append(points, TrendPoint{
			Date:      key,
			Created:   created[key],
			Completed: completed[key],
		})
	}
	return points
}

// WeekSummary aggregates one ISO week of task activity.
type WeekSummary struct {
	Week           string `json:"week"`
	Created        int    `json:"created"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

// WeeklyTrends folds the trailing window into ISO weeks, oldest first. The
// completion rate relates completions to creations within the same week and is
// 0 for weeks without created tasks.
func WeeklyTrends(tasks []models.Task, now time.Time, days int) []WeekSummary {
	if days <= 0 {
		days = DefaultTrendDays
	}

	created := make(map[string]int)
	completed := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		created[weekKey(t.CreatedAt)]++
		if t.CompletedAt != nil {
			completed[weekKey(*t.CompletedAt)]++
		}
	}

	var weeks []WeekSummary
	seen := make(map[string]bool)
	for d := days - 1; d >= 0; d-- {
		key := weekKey(now.AddDate(0, 0, -d))
		if seen[key] {
			continue
		}
		seen[key] = true
		weeks = append(weeks, WeekSummary{
			Week:           key,
			Created:        created[key],
			Completed:      completed[key],
			CompletionRate: ratePercent(completed[key], created[key]),
		})
	}
	return weeks
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func ratePercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
