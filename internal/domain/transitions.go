package domain

import (
	"math"
	"time"

	"github.com/taskhive/taskhive/internal/models"
)

// ApplyStatusChange moves the task to newStatus and applies the derived-field
// rules:
//
//	→ completed    progress 100, completedAt set on first transition only
//	→ todo         progress 0
//	→ in-progress  startedAt set on first transition only
//
// Leaving completed does not clear completedAt or startedAt; timestamps record
// the first time each state was reached.
func ApplyStatusChange(t *models.Task, newStatus string, now time.Time) error {
	if !models.ValidTaskStatus(newStatus) {
		return Validationf("unknown task status %q", newStatus)
	}

	switch newStatus {
	case models.TaskStatusCompleted:
		t.Progress = 100
		if t.CompletedAt == nil {
			ts := now
			t.CompletedAt = &ts
		}
	case models.TaskStatusTodo:
		t.Progress = 0
	case models.TaskStatusInProgress:
		if t.StartedAt == nil {
			ts := now
			t.StartedAt = &ts
		}
	}

	t.Status = newStatus
	return nil
}

// SubtasksProgress derives a completion percentage from the subtask checklist.
// An empty checklist reads as fully complete for display purposes; callers must
// not write that value back to a task with no subtasks.
func SubtasksProgress(t *models.Task) int {
	if len(t.Subtasks) == 0 {
		return 100
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return roundPercent(done, len(t.Subtasks))
}

// RecomputeProgressFromSubtasks overwrites task progress with the subtask
// ratio. Called after a subtask toggle; a task without subtasks keeps whatever
// progress the status rules assigned. Idempotent until the checklist changes.
func RecomputeProgressFromSubtasks(t *models.Task) {
	if len(t.Subtasks) == 0 {
		return
	}
	t.Progress = SubtasksProgress(t)
}

// ProjectProgress is the rounded arithmetic mean of task progress values.
// Zero tasks yields 0; callers keep the previous stored value in that case.
func ProjectProgress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	sum := 0
	for _, t := range tasks {
		sum += t.Progress
	}
	return int(math.Round(float64(sum) / float64(len(tasks))))
}

func roundPercent(part, total int) int {
	return int(math.Round(100 * float64(part) / float64(total)))
}
