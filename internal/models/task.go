package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status constants
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusInReview   = "in-review"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// MaxCommentLength bounds a single comment's text.
const MaxCommentLength = 500

// Subtask is an ordered checklist item on a task.
type Subtask struct {
	Title     string `bson:"title" json:"title"`
	Completed bool   `bson:"completed" json:"completed"`
}

// Comment is an append-only note on a task.
type Comment struct {
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Task belongs to exactly one project. Archived tasks are hidden from listing
// views; only an explicit delete removes the document.
type Task struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Description    string               `bson:"description" json:"description"`
	ProjectID      primitive.ObjectID   `bson:"projectId" json:"projectId"`
	AssigneeID     primitive.ObjectID   `bson:"assigneeId" json:"assigneeId"`
	CreatorID      primitive.ObjectID   `bson:"creatorId" json:"creatorId"`
	Status         string               `bson:"status" json:"status"`
	Priority       string               `bson:"priority" json:"priority"`
	Category       string               `bson:"category" json:"category"`
	DueDate        *time.Time           `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	EstimatedHours float64              `bson:"estimatedHours" json:"estimatedHours"`
	ActualHours    float64              `bson:"actualHours" json:"actualHours"`
	Progress       int                  `bson:"progress" json:"progress"`
	Subtasks       []Subtask            `bson:"subtasks" json:"subtasks"`
	Comments       []Comment            `bson:"comments" json:"comments"`
	Dependencies   []primitive.ObjectID `bson:"dependencies" json:"dependencies"`
	IsArchived     bool                 `bson:"isArchived" json:"isArchived"`
	StartedAt      *time.Time           `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt    *time.Time           `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the task still counts toward overdue checks.
func (t *Task) IsOpen() bool {
	return t.Status != TaskStatusCompleted && t.Status != TaskStatusCancelled
}

// IsOverdue reports whether the task's due date has passed while it is open.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.IsOpen()
}
