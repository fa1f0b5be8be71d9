package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service"
)

// ProjectHandler exposes project CRUD and membership endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
	tasks    *service.TaskService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projects *service.ProjectService, tasks *service.TaskService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks}
}

// Create handles POST /api/v1/projects.
func (h *ProjectHandler) Create(c echo.Context) error {
	var in service.CreateProjectInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	project, err := h.projects.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, project)
}

// List handles GET /api/v1/projects.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projects.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, projects)
}

// Get handles GET /api/v1/projects/:id.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	project, err := h.projects.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, project)
}

// Update handles PUT /api/v1/projects/:id.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in service.UpdateProjectInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	project, err := h.projects.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, project)
}

// Delete handles DELETE /api/v1/projects/:id.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.projects.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "project deleted")
}

// ListTasks handles GET /api/v1/projects/:id/tasks.
func (h *ProjectHandler) ListTasks(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	includeArchived := c.QueryParam("includeArchived") == "true"
	tasks, err := h.tasks.ListByProject(c.Request().Context(), id, includeArchived)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, tasks)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// AddMember handles POST /api/v1/projects/:id/members.
func (h *ProjectHandler) AddMember(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in addMemberRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}
	userID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return respondError(c, domain.Validationf("invalid user id"))
	}

	project, err := h.projects.AddMember(c.Request().Context(), projectID, userID, in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, project)
}

// RemoveMember handles DELETE /api/v1/projects/:id/members/:userId.
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	project, err := h.projects.RemoveMember(c.Request().Context(), projectID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, project)
}

// pathID parses an ObjectID path parameter.
func pathID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, domain.Validationf("invalid %s", name)
	}
	return id, nil
}
