package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/pkg/auth"
	"github.com/taskhive/taskhive/pkg/email"
)

// fixture wires all services over in-memory repositories.
type fixture struct {
	users    *repository.MemoryUserRepository
	projects *repository.MemoryProjectRepository
	tasks    *repository.MemoryTaskRepository
	mail     *email.MockService

	auth      *AuthService
	project   *ProjectService
	task      *TaskService
	dashboard *DashboardService
}

func newFixture() *fixture {
	users := repository.NewMemoryUserRepository()
	projects := repository.NewMemoryProjectRepository()
	tasks := repository.NewMemoryTaskRepository()
	mail := email.NewMockService()
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-access-secret", "test-refresh-secret",
		15*time.Minute, 7*24*time.Hour)

	return &fixture{
		users:     users,
		projects:  projects,
		tasks:     tasks,
		mail:      mail,
		auth:      NewAuthService(users, tokens, mail, logger),
		project:   NewProjectService(projects, tasks, users, logger),
		task:      NewTaskService(tasks, projects, logger),
		dashboard: NewDashboardService(tasks, logger),
	}
}

// seedUser inserts an active account directly and returns it.
func (f *fixture) seedUser(name, emailAddr string) *models.User {
	user := &models.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: "$2a$12$unusable",
		Role:         models.UserRoleUser,
		IsActive:     true,
	}
	_ = f.users.Create(context.Background(), user)
	return user
}

// asUser returns a context authenticated as the given user.
func asUser(user *models.User) context.Context {
	return middleware.WithIdentity(context.Background(), user.ID.Hex(), user.Email, user.Role)
}
