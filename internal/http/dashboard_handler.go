package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service"
)

// DashboardHandler exposes the aggregated statistics endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboard.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, stats)
}

// Distribution handles GET /api/v1/dashboard/distribution?by=status.
func (h *DashboardHandler) Distribution(c echo.Context) error {
	by := c.QueryParam("by")
	if by == "" {
		by = "status"
	}

	counts, err := h.dashboard.Distribution(c.Request().Context(), by)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, counts)
}

// Trends handles GET /api/v1/dashboard/trends?days=30.
func (h *DashboardHandler) Trends(c echo.Context) error {
	days, err := queryDays(c)
	if err != nil {
		return respondError(c, err)
	}

	points, err := h.dashboard.Trends(c.Request().Context(), days)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, points)
}

// Weekly handles GET /api/v1/dashboard/weekly?days=30.
func (h *DashboardHandler) Weekly(c echo.Context) error {
	days, err := queryDays(c)
	if err != nil {
		return respondError(c, err)
	}

	weeks, err := h.dashboard.Weekly(c.Request().Context(), days)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, weeks)
}

func queryDays(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 || days > 365 {
		return 0, domain.Validationf("days must be between 0 and 365")
	}
	return days, nil
}
