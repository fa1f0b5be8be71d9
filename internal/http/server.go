// Package http exposes the REST API over echo.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/pkg/auth"
)

// Server hosts the API.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	config *Config

	auth      *AuthHandler
	projects  *ProjectHandler
	tasks     *TaskHandler
	dashboard *DashboardHandler
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer wires the handlers and middleware onto a fresh echo instance.
func NewServer(cfg *Config, tokenManager *auth.TokenManager,
	authService *service.AuthService, projectService *service.ProjectService,
	taskService *service.TaskService, dashboardService *service.DashboardService,
	logger *zap.Logger) (*Server, error) {

	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.ExtractClientInfo())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			status := c.Response().Status
			path := c.Path()
			requestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(c.Request().Method, path).Observe(duration.Seconds())

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:      e,
		logger:    logger,
		config:    cfg,
		auth:      NewAuthHandler(authService),
		projects:  NewProjectHandler(projectService, taskService),
		tasks:     NewTaskHandler(taskService),
		dashboard: NewDashboardHandler(dashboardService),
	}

	s.registerRoutes(tokenManager)

	return s, nil
}

func (s *Server) registerRoutes(tokenManager *auth.TokenManager) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")

	v1.POST("/auth/register", s.auth.Register)
	v1.POST("/auth/login", s.auth.Login)
	v1.POST("/auth/refresh", s.auth.Refresh)
	v1.POST("/auth/logout", s.auth.Logout)

	authed := v1.Group("", middleware.RequireAuth(tokenManager))

	authed.GET("/auth/me", s.auth.Me)
	authed.PUT("/auth/me", s.auth.UpdateProfile)
	authed.PUT("/auth/password", s.auth.ChangePassword)

	authed.POST("/projects", s.projects.Create)
	authed.GET("/projects", s.projects.List)
	authed.GET("/projects/:id", s.projects.Get)
	authed.PUT("/projects/:id", s.projects.Update)
	authed.DELETE("/projects/:id", s.projects.Delete)
	authed.GET("/projects/:id/tasks", s.projects.ListTasks)
	authed.POST("/projects/:id/members", s.projects.AddMember)
	authed.DELETE("/projects/:id/members/:userId", s.projects.RemoveMember)

	authed.POST("/tasks", s.tasks.Create)
	authed.GET("/tasks", s.tasks.List)
	authed.GET("/tasks/:id", s.tasks.Get)
	authed.PUT("/tasks/:id", s.tasks.Update)
	authed.DELETE("/tasks/:id", s.tasks.Delete)
	authed.POST("/tasks/:id/subtasks", s.tasks.AddSubtask)
	authed.PUT("/tasks/:id/subtasks/:index", s.tasks.ToggleSubtask)
	authed.DELETE("/tasks/:id/subtasks/:index", s.tasks.RemoveSubtask)
	authed.POST("/tasks/:id/comments", s.tasks.AddComment)

	authed.GET("/dashboard/stats", s.dashboard.Stats)
	authed.GET("/dashboard/distribution", s.dashboard.Distribution)
	authed.GET("/dashboard/trends", s.dashboard.Trends)
	authed.GET("/dashboard/weekly", s.dashboard.Weekly)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Echo exposes the underlying router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
