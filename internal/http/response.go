package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/domain"
)

// Response is the envelope every API endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: true, Message: message})
}

// respondError maps a rule-engine error kind onto an HTTP status. Internal
// details never reach the client.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.KindAuthorization:
		status = http.StatusForbidden
		message = err.Error()
	case domain.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	}

	return c.JSON(status, Response{Success: false, Errors: []string{message}})
}

// respondAuthError is respondError for credential endpoints, where a denied
// request means the caller is unauthenticated rather than short on rights.
func respondAuthError(c echo.Context, err error) error {
	if domain.KindOf(err) == domain.KindAuthorization {
		return c.JSON(http.StatusUnauthorized, Response{Success: false, Errors: []string{err.Error()}})
	}
	return respondError(c, err)
}
