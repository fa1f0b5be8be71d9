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

// ProjectService handles project CRUD and membership, guarded by the rule
// engine.
type ProjectService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(projects repository.ProjectRepository, tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		users:    users,
		logger:   logger,
	}
}

// CreateProjectInput carries a project creation request.
type CreateProjectInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// Create creates a project owned by the caller.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Validationf("title is required")
	}
	if in.Status == "" {
		in.Status = models.ProjectStatusPlanning
	}
	if !models.ValidProjectStatus(in.Status) {
		return nil, domain.Validationf("unknown project status %q", in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return nil, domain.Validationf("unknown priority %q", in.Priority)
	}
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       title,
		Description: in.Description,
		OwnerID:     callerID,
		Members:     []models.Member{},
		Status:      in.Status,
		Priority:    in.Priority,
		Progress:    0,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, domain.Internal("create project", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("owner_id", callerID.Hex()))

	return project, nil
}

// Get returns a project the caller belongs to.
func (s *ProjectService) Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.RoleOf(project, callerID) == domain.RoleNone {
		return nil, domain.Authorizationf("not a member of the project")
	}
	return project, nil
}

// List returns the projects the caller owns or belongs to.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	projects, err := s.projects.ListForUser(ctx, callerID)
	if err != nil {
		return nil, domain.Internal("list projects", err)
	}
	return projects, nil
}

// UpdateProjectInput carries project changes; nil fields stay untouched.
type UpdateProjectInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// Update applies changes to a project the caller may edit.
func (s *ProjectService) Update(ctx context.Context, id primitive.ObjectID, in UpdateProjectInput) (*models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditProject(project, callerID) {
		return nil, domain.Authorizationf("not allowed to edit the project")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Validationf("title cannot be empty")
		}
		project.Title = title
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		if !models.ValidProjectStatus(*in.Status) {
			return nil, domain.Validationf("unknown project status %q", *in.Status)
		}
		project.Status = *in.Status
	}
	if in.Priority != nil {
		if !models.ValidPriority(*in.Priority) {
			return nil, domain.Validationf("unknown priority %q", *in.Priority)
		}
		project.Priority = *in.Priority
	}
	if in.StartDate != nil {
		project.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		project.EndDate = in.EndDate
	}
	if err := validateDateRange(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, domain.Internal("update project", err)
	}
	return project, nil
}

// Delete removes a project and cascades to its tasks. Owner only.
func (s *ProjectService) Delete(ctx context.Context, id primitive.ObjectID) error {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return domain.Authorizationf("not authenticated")
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanDeleteProject(project, callerID) {
		return domain.Authorizationf("only the owner can delete the project")
	}

	if err := s.tasks.DeleteByProject(ctx, id); err != nil {
		return domain.Internal("delete project tasks", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return domain.Internal("delete project", err)
	}

	s.logger.Info("project deleted",
		zap.String("project_id", id.Hex()),
		zap.String("owner_id", callerID.Hex()))
	return nil
}

// AddMember adds a user to the project with the given role.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID primitive.ObjectID, roleName string) (*models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !domain.CanManageMembers(project, callerID) {
		return nil, domain.Authorizationf("not allowed to manage members")
	}

	role, err := domain.ParseRole(roleName)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("user not found")
		}
		return nil, domain.Internal("get user", err)
	}
	if !user.IsActive {
		return nil, domain.Validationf("user account is deactivated")
	}

	if err := domain.AddMember(project, userID, role, time.Now()); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, domain.Internal("update project", err)
	}
	return project, nil
}

// RemoveMember removes a user from the project. Self-removal is always
// permitted; the owner never is.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.Authorizationf("not authenticated")
	}

	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := domain.RemoveMember(project, callerID, userID); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, domain.Internal("update project", err)
	}
	return project, nil
}

func (s *ProjectService) load(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("project not found")
		}
		return nil, domain.Internal("get project", err)
	}
	return project, nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return domain.Validationf("end date must be after start date")
	}
	return nil
}
