package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/repository"
)

// TaskService handles task CRUD, subtasks, comments, and the project progress
// rollup that follows task changes.
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	logger   *zap.Logger

	// progressLocks serializes the read-recompute-write of a project's
	// progress per project id.
	progressLocks keyedMutex
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

// CreateTaskInput carries a task creation request.
type CreateTaskInput struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ProjectID      string     `json:"projectId"`
	AssigneeID     string     `json:"assigneeId"`
	Priority       string     `json:"priority"`
	Category       string     `json:"category"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours float64    `json:"estimatedHours"`
}

// Create creates a task in a project the caller may create tasks in. The
// assignee defaults to the caller and must belong to the project.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Validationf("title is required")
	}
	projectID, err := primitive.ObjectIDFromHex(in.ProjectID)
	if err != nil {
		return nil, domain.Validationf("invalid project id")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return nil, domain.Validationf("unknown priority %q", in.Priority)
	}
	if in.EstimatedHours < 0 {
		return nil, domain.Validationf("estimated hours cannot be negative")
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !domain.CanCreateTask(project, callerID) {
		return nil, domain.Authorizationf("not allowed to create tasks in the project")
	}

	assigneeID := callerID
	if in.AssigneeID != "" {
		assigneeID, err = primitive.ObjectIDFromHex(in.AssigneeID)
		if err != nil {
			return nil, domain.Validationf("invalid assignee id")
		}
	}
	if domain.RoleOf(project, assigneeID) == domain.RoleNone {
		return nil, domain.Validationf("assignee is not a member of the project")
	}

	task := &models.Task{
		Title:          title,
		Description:    in.Description,
		ProjectID:      projectID,
		AssigneeID:     assigneeID,
		CreatorID:      callerID,
		Status:         models.TaskStatusTodo,
		Priority:       in.Priority,
		Category:       in.Category,
		DueDate:        in.DueDate,
		EstimatedHours: in.EstimatedHours,
		Subtasks:       []models.Subtask{},
		Comments:       []models.Comment{},
		Dependencies:   []primitive.ObjectID{},
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, domain.Internal("create task", err)
	}

	if err := s.recomputeProjectProgress(ctx, projectID); err != nil {
		s.logger.Warn("project progress recompute failed",
			zap.String("project_id", projectID.Hex()), zap.Error(err))
	}

	s.logger.Info("task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.String("creator_id", callerID.Hex()))

	return task, nil
}

// Get returns a task visible to the caller.
func (s *TaskService) Get(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	task, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if domain.RoleOf(project, callerID) == domain.RoleNone {
		return nil, domain.Authorizationf("not a member of the project")
	}
	return task, nil
}

// List returns the caller's tasks, narrowed by the filter. Archived tasks are
// hidden unless asked for.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	if filter.Status != "" && !models.ValidTaskStatus(filter.Status) {
		return nil, domain.Validationf("unknown task status %q", filter.Status)
	}
	if filter.Priority != "" && !models.ValidPriority(filter.Priority) {
		return nil, domain.Validationf("unknown priority %q", filter.Priority)
	}

	tasks, err := s.tasks.ListForUser(ctx, callerID, filter)
	if err != nil {
		return nil, domain.Internal("list tasks", err)
	}
	return tasks, nil
}

// ListByProject returns a project's tasks for a caller who belongs to it.
func (s *TaskService) ListByProject(ctx context.Context, projectID primitive.ObjectID, includeArchived bool) ([]models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if domain.RoleOf(project, callerID) == domain.RoleNone {
		return nil, domain.Authorizationf("not a member of the project")
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID, includeArchived)
	if err != nil {
		return nil, domain.Internal("list project tasks", err)
	}
	return tasks, nil
}

// UpdateTaskInput carries task changes; nil fields stay untouched.
type UpdateTaskInput struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	Category       *string    `json:"category"`
	AssigneeID     *string    `json:"assigneeId"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
	IsArchived     *bool      `json:"isArchived"`
}

// Update applies changes to a task the caller may edit. Status changes run the
// transition rules; any progress-affecting change triggers a project rollup.
func (s *TaskService) Update(ctx context.Context, id primitive.ObjectID, in UpdateTaskInput) (*models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	task, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditTask(task, project, callerID) {
		return nil, domain.Authorizationf("not allowed to edit the task")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Validationf("title cannot be empty")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		if !models.ValidPriority(*in.Priority) {
			return nil, domain.Validationf("unknown priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	if in.AssigneeID != nil {
		assigneeID, err := primitive.ObjectIDFromHex(*in.AssigneeID)
		if err != nil {
			return nil, domain.Validationf("invalid assignee id")
		}
		if domain.RoleOf(project, assigneeID) == domain.RoleNone {
			return nil, domain.Validationf("assignee is not a member of the project")
		}
		task.AssigneeID = assigneeID
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return nil, domain.Validationf("estimated hours cannot be negative")
		}
		task.EstimatedHours = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		if *in.ActualHours < 0 {
			return nil, domain.Validationf("actual hours cannot be negative")
		}
		task.ActualHours = *in.ActualHours
	}
	if in.IsArchived != nil {
		task.IsArchived = *in.IsArchived
	}
	if in.Status != nil {
		if err := domain.ApplyStatusChange(task, *in.Status, time.Now()); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, domain.Internal("update task", err)
	}

	if in.Status != nil || in.IsArchived != nil {
		if err := s.recomputeProjectProgress(ctx, task.ProjectID); err != nil {
			s.logger.Warn("project progress recompute failed",
				zap.String("project_id", task.ProjectID.Hex()), zap.Error(err))
		}
	}
	return task, nil
}

// Delete removes a task. Creator or project owner/admin only.
func (s *TaskService) Delete(ctx context.Context, id primitive.ObjectID) error {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return domain.Authorizationf("not authenticated")
	}

	task, err := s.loadTask(ctx, id)
	if err != nil {
		return err
	}
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if !domain.CanDeleteTask(task, project, callerID) {
		return domain.Authorizationf("not allowed to delete the task")
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return domain.Internal("delete task", err)
	}

	if err := s.recomputeProjectProgress(ctx, task.ProjectID); err != nil {
		s.logger.Warn("project progress recompute failed",
			zap.String("project_id", task.ProjectID.Hex()), zap.Error(err))
	}

	s.logger.Info("task deleted",
		zap.String("task_id", id.Hex()),
		zap.String("user_id", callerID.Hex()))
	return nil
}

// AddSubtask appends a checklist item and recomputes task and project
// progress.
func (s *TaskService) AddSubtask(ctx context.Context, taskID primitive.ObjectID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Validationf("subtask title is required")
	}

	return s.mutateSubtasks(ctx, taskID, func(task *models.Task) error {
		task.Subtasks = append(task.Subtasks, models.Subtask{Title: title})
		return nil
	})
}

// ToggleSubtask flips a checklist item's completed flag and recomputes task
// and project progress.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID primitive.ObjectID, index int) (*models.Task, error) {
	return s.mutateSubtasks(ctx, taskID, func(task *models.Task) error {
		if index < 0 || index >= len(task.Subtasks) {
			return domain.NotFoundf("subtask %d not found", index)
		}
		task.Subtasks[index].Completed = !task.Subtasks[index].Completed
		return nil
	})
}

// RemoveSubtask deletes a checklist item and recomputes task and project
// progress.
func (s *TaskService) RemoveSubtask(ctx context.Context, taskID primitive.ObjectID, index int) (*models.Task, error) {
	return s.mutateSubtasks(ctx, taskID, func(task *models.Task) error {
		if index < 0 || index >= len(task.Subtasks) {
			return domain.NotFoundf("subtask %d not found", index)
		}
		task.Subtasks = append(task.Subtasks[:index], task.Subtasks[index+1:]...)
		return nil
	})
}

// AddComment appends a comment authored by the caller. Any project member may
// comment.
func (s *TaskService) AddComment(ctx context.Context, taskID primitive.ObjectID, text string) (*models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Validationf("comment text is required")
	}
	if len(text) > models.MaxCommentLength {
		return nil, domain.Validationf("comment exceeds %d characters", models.MaxCommentLength)
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if domain.RoleOf(project, callerID) == domain.RoleNone {
		return nil, domain.Authorizationf("not a member of the project")
	}

	task.Comments = append(task.Comments, models.Comment{
		AuthorID:  callerID,
		Text:      text,
		CreatedAt: time.Now(),
	})

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, domain.Internal("update task", err)
	}
	return task, nil
}

// mutateSubtasks runs the edit-permission check, applies fn to the checklist,
// recomputes task progress, saves, and rolls the project progress up.
func (s *TaskService) mutateSubtasks(ctx context.Context, taskID primitive.ObjectID, fn func(*models.Task) error) (*models.Task, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditTask(task, project, callerID) {
		return nil, domain.Authorizationf("not allowed to edit the task")
	}

	if err := fn(task); err != nil {
		return nil, err
	}
	domain.RecomputeProgressFromSubtasks(task)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, domain.Internal("update task", err)
	}

	if err := s.recomputeProjectProgress(ctx, task.ProjectID); err != nil {
		s.logger.Warn("project progress recompute failed",
			zap.String("project_id", task.ProjectID.Hex()), zap.Error(err))
	}
	return task, nil
}

// recomputeProjectProgress rolls the mean progress of a project's non-archived
// tasks into the project document. A project with no live tasks keeps its
// stored value.
func (s *TaskService) recomputeProjectProgress(ctx context.Context, projectID primitive.ObjectID) error {
	unlock := s.progressLocks.Lock(projectID.Hex())
	defer unlock()

	tasks, err := s.tasks.ListByProject(ctx, projectID, false)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	project.Progress = domain.ProjectProgress(tasks)
	return s.projects.Update(ctx, project)
}

func (s *TaskService) loadTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("task not found")
		}
		return nil, domain.Internal("get task", err)
	}
	return task, nil
}

func (s *TaskService) loadProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("project not found")
		}
		return nil, domain.Internal("get project", err)
	}
	return project, nil
}
