// Package repository persists users, projects, and tasks in MongoDB. Services
// depend on the interfaces here; the Mongo implementations live alongside.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/models"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user email collides with the unique
// index.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository stores user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ProjectRepository stores projects and their member lists.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	// ListForUser returns projects where the user is owner or member.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	ProjectID       *primitive.ObjectID
	Status          string
	Priority        string
	IncludeArchived bool
}

// TaskRepository stores tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	// ListByProject returns the project's tasks, archived ones included only
	// when asked for.
	ListByProject(ctx context.Context, projectID primitive.ObjectID, includeArchived bool) ([]models.Task, error)
	// ListForUser returns tasks the user created or is assigned to.
	ListForUser(ctx context.Context, userID primitive.ObjectID, filter TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
}
