package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

var (
	// ErrNotFound is returned when the addressed project, task or user does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateTitle is returned when a project title collides with the unique index.
	ErrDuplicateTitle = errors.New("repository: project title already exists")
	// ErrDuplicateEmail is returned when a user email collides with the unique index.
	ErrDuplicateEmail = errors.New("repository: email already registered")
)

// ProjectRepository persists project aggregates. The store is the only place
// title uniqueness is enforced.
type ProjectRepository interface {
	// Create inserts a project together with its initial members
	Create(ctx context.Context, project *models.Project) error

	// FindByID loads the full aggregate: metadata, members and tasks
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// ListForUser lists projects the user is a member of, without tasks
	ListForUser(ctx context.Context, userID string, params utils.PaginationParams) ([]models.Project, int64, error)

	// Save writes metadata and the member list back as a whole (last write wins)
	Save(ctx context.Context, project *models.Project) error

	// Delete removes a project and everything it owns
	Delete(ctx context.Context, id string) error

	// AddTask appends a task and sets task.Index to the next value of the
	// project's index counter. Concurrent calls never receive the same index.
	AddTask(ctx context.Context, projectID string, task *models.Task) error

	// UpdateTaskContent writes a task's title and description
	UpdateTaskContent(ctx context.Context, projectID string, task *models.Task) error

	// UpdateTaskPlacement writes a single task's stage and order
	UpdateTaskPlacement(ctx context.Context, projectID, taskID string, stage models.Stage, order int) error

	// DeleteTask removes one task from a project
	DeleteTask(ctx context.Context, projectID, taskID string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDs loads every user in ids that exists, in no particular order
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}
