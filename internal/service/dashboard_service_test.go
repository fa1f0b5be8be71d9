package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/analytics"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/models"
)

func TestDashboardStats(t *testing.T) {
	f, owner, project := taskFixture(t)
	ctx := asUser(owner)

	for _, title := range []string{"one", "two", "three", "four"} {
		_, err := f.task.Create(ctx, CreateTaskInput{Title: title, ProjectID: project.ID.Hex()})
		require.NoError(t, err)
	}
	tasks, err := f.task.ListByProject(ctx, project.ID, false)
	require.NoError(t, err)

	status := models.TaskStatusCompleted
	_, err = f.task.Update(ctx, tasks[0].ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)

	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 25, stats.CompletionRate)
	assert.Equal(t, 4, stats.CreatedLast7Days)
	assert.Equal(t, 3, stats.ByStatus[models.TaskStatusTodo])
}

func TestDashboardStats_OnlyOwnTasks(t *testing.T) {
	f, owner, project := taskFixture(t)
	member := f.seedUser("Member", "member@example.com")
	_, err := f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.NoError(t, err)

	_, err = f.task.Create(asUser(owner), CreateTaskInput{
		Title: "Owner's", ProjectID: project.ID.Hex(),
	})
	require.NoError(t, err)
	_, err = f.task.Create(asUser(member), CreateTaskInput{
		Title: "Member's", ProjectID: project.ID.Hex(),
	})
	require.NoError(t, err)

	stats, err := f.dashboard.Stats(asUser(member))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTasks)
}

func TestDashboardDistribution(t *testing.T) {
	f, owner, project := taskFixture(t)
	ctx := asUser(owner)

	_, err := f.task.Create(ctx, CreateTaskInput{
		Title: "a", ProjectID: project.ID.Hex(), Category: "docs",
	})
	require.NoError(t, err)
	_, err = f.task.Create(ctx, CreateTaskInput{
		Title: "b", ProjectID: project.ID.Hex(),
	})
	require.NoError(t, err)

	byCategory, err := f.dashboard.Distribution(ctx, "category")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"docs": 1, "uncategorized": 1}, byCategory)

	_, err = f.dashboard.Distribution(ctx, "assignee")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDashboardTrends_DefaultWindow(t *testing.T) {
	f, owner, project := taskFixture(t)
	ctx := asUser(owner)

	_, err := f.task.Create(ctx, CreateTaskInput{Title: "a", ProjectID: project.ID.Hex()})
	require.NoError(t, err)

	points, err := f.dashboard.Trends(ctx, 0)
	require.NoError(t, err)
	require.Len(t, points, analytics.DefaultTrendDays)
	assert.Equal(t, 1, points[len(points)-1].Created)
}

func TestDashboardWeekly(t *testing.T) {
	f, owner, project := taskFixture(t)
	ctx := asUser(owner)

	task, err := f.task.Create(ctx, CreateTaskInput{Title: "a", ProjectID: project.ID.Hex()})
	require.NoError(t, err)
	status := models.TaskStatusCompleted
	_, err = f.task.Update(ctx, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)

	weeks, err := f.dashboard.Weekly(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, weeks)

	current := weeks[len(weeks)-1]
	assert.Equal(t, 1, current.Created)
	assert.Equal(t, 1, current.Completed)
	assert.Equal(t, 100, current.CompletionRate)
}

func TestDashboard_RequiresAuth(t *testing.T) {
	f := newFixture()
	_, err := f.dashboard.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
}
