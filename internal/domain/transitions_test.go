package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/models"
)

func TestApplyStatusChange_Completed(t *testing.T) {
	now := time.Now()
	task := &models.Task{Status: models.TaskStatusInProgress, Progress: 60}

	require.NoError(t, ApplyStatusChange(task, models.TaskStatusCompleted, now))

	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
}

func TestApplyStatusChange_CompletedAtSetOnce(t *testing.T) {
	first := time.Now().Add(-time.Hour)
	task := &models.Task{Status: models.TaskStatusInProgress}

	require.NoError(t, ApplyStatusChange(task, models.TaskStatusCompleted, first))
	require.NoError(t, ApplyStatusChange(task, models.TaskStatusInReview, time.Now()))
	require.NoError(t, ApplyStatusChange(task, models.TaskStatusCompleted, time.Now()))

	// The original completion timestamp survives re-completion.
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)
}

func TestApplyStatusChange_UncompleteKeepsTimestamps(t *testing.T) {
	now := time.Now()
	task := &models.Task{Status: models.TaskStatusTodo}

	require.NoError(t, ApplyStatusChange(task, models.TaskStatusInProgress, now))
	require.NoError(t, ApplyStatusChange(task, models.TaskStatusCompleted, now))
	require.NoError(t, ApplyStatusChange(task, models.TaskStatusInProgress, now.Add(time.Hour)))

	assert.NotNil(t, task.CompletedAt, "moving away from completed keeps completedAt")
	require.NotNil(t, task.StartedAt)
	assert.Equal(t, now, *task.StartedAt, "startedAt records the first transition only")
}

func TestApplyStatusChange_Todo(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusInProgress, Progress: 45}

	require.NoError(t, ApplyStatusChange(task, models.TaskStatusTodo, time.Now()))

	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, 0, task.Progress)
}

func TestApplyStatusChange_InvalidStatus(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusTodo}

	err := ApplyStatusChange(task, "done", time.Now())
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, models.TaskStatusTodo, task.Status)
}

func TestSubtasksProgress(t *testing.T) {
	tests := []struct {
		name     string
		subtasks []models.Subtask
		want     int
	}{
		{"empty list reads as complete", nil, 100},
		{"one of three", []models.Subtask{{Completed: true}, {}, {}}, 33},
		{"two of three", []models.Subtask{{Completed: true}, {Completed: true}, {}}, 67},
		{"all complete", []models.Subtask{{Completed: true}, {Completed: true}}, 100},
		{"none complete", []models.Subtask{{}, {}}, 0},
		{"half", []models.Subtask{{Completed: true}, {}}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{Subtasks: tt.subtasks}
			assert.Equal(t, tt.want, SubtasksProgress(task))
		})
	}
}

func TestRecomputeProgressFromSubtasks(t *testing.T) {
	task := &models.Task{
		Status:   models.TaskStatusInProgress,
		Progress: 10,
		Subtasks: []models.Subtask{{Completed: true}, {}, {}},
	}

	RecomputeProgressFromSubtasks(task)
	assert.Equal(t, 33, task.Progress)

	// Idempotent without an intervening toggle.
	RecomputeProgressFromSubtasks(task)
	assert.Equal(t, 33, task.Progress)
}

func TestRecomputeProgressFromSubtasks_EmptyListLeavesProgress(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusInProgress, Progress: 40}

	RecomputeProgressFromSubtasks(task)

	assert.Equal(t, 40, task.Progress, "no subtasks means status rules own progress")
}

func TestProjectProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress []int
		want     int
	}{
		{"no tasks", nil, 0},
		{"40 and 60", []int{40, 60}, 50},
		{"rounding up", []int{33, 34}, 34},
		{"single task", []int{75}, 75},
		{"all done", []int{100, 100, 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make([]models.Task, len(tt.progress))
			for i, p := range tt.progress {
				tasks[i] = models.Task{Progress: p}
			}
			assert.Equal(t, tt.want, ProjectProgress(tasks))
		})
	}
}
