package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/service"
)

// TaskHandler exposes task, subtask, and comment endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	var in service.CreateTaskInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	task, err := h.tasks.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, task)
}

// List handles GET /api/v1/tasks with optional status, priority, projectId,
// and includeArchived query filters.
func (h *TaskHandler) List(c echo.Context) error {
	filter := repository.TaskFilter{
		Status:          c.QueryParam("status"),
		Priority:        c.QueryParam("priority"),
		IncludeArchived: c.QueryParam("includeArchived") == "true",
	}
	if raw := c.QueryParam("projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return respondError(c, domain.Validationf("invalid projectId"))
		}
		filter.ProjectID = &id
	}

	tasks, err := h.tasks.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, tasks)
}

// Get handles GET /api/v1/tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	task, err := h.tasks.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task)
}

// Update handles PUT /api/v1/tasks/:id.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in service.UpdateTaskInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	task, err := h.tasks.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task)
}

// Delete handles DELETE /api/v1/tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.tasks.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "task deleted")
}

type addSubtaskRequest struct {
	Title string `json:"title"`
}

// AddSubtask handles POST /api/v1/tasks/:id/subtasks.
func (h *TaskHandler) AddSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in addSubtaskRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	task, err := h.tasks.AddSubtask(c.Request().Context(), id, in.Title)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, task)
}

// ToggleSubtask handles PUT /api/v1/tasks/:id/subtasks/:index.
func (h *TaskHandler) ToggleSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	index, err := pathIndex(c)
	if err != nil {
		return respondError(c, err)
	}

	task, err := h.tasks.ToggleSubtask(c.Request().Context(), id, index)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task)
}

// RemoveSubtask handles DELETE /api/v1/tasks/:id/subtasks/:index.
func (h *TaskHandler) RemoveSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	index, err := pathIndex(c)
	if err != nil {
		return respondError(c, err)
	}

	task, err := h.tasks.RemoveSubtask(c.Request().Context(), id, index)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, task)
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /api/v1/tasks/:id/comments.
func (h *TaskHandler) AddComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in addCommentRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	task, err := h.tasks.AddComment(c.Request().Context(), id, in.Text)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, task)
}

func pathIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, domain.Validationf("invalid subtask index")
	}
	return index, nil
}
