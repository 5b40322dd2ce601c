package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/authz"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"go.uber.org/zap"
)

// ProjectService provides business logic for the project lifecycle.
type ProjectService struct {
	projects repository.ProjectRepository
	log      *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects repository.ProjectRepository, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		log:      log,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	OwnerID     string
}

// CreateProject creates a project with the caller seeded as its only Owner.
// Title uniqueness is left to the store's unique index.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	title := cleanTitle(input.Title)

	errs := fieldErrors{}
	checkTitle(errs, "title", title)
	if err := errs.err(); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       title,
		Description: cleanDescription(input.Description),
		Members: []models.ProjectMember{
			{UserID: input.OwnerID, Role: models.RoleOwner},
		},
	}

	if err := s.projects.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateTitle) {
			return nil, ErrDuplicateProjectTitle
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created", zap.String("project_id", project.ID), zap.String("owner_id", input.OwnerID))
	return project, nil
}

// ListProjects returns the projects the user belongs to, without tasks.
func (s *ProjectService) ListProjects(ctx context.Context, userID string, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projects.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// LoadProject fetches the full aggregate and the caller's role in it.
// Callers who are not members get ErrProjectNotFound.
func (s *ProjectService) LoadProject(ctx context.Context, projectID, callerID string) (*models.Project, models.Role, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrProjectNotFound
		}
		return nil, "", fmt.Errorf("failed to find project: %w", err)
	}

	role, ok := authz.RoleOf(project, callerID)
	if !ok {
		return nil, "", ErrProjectNotFound
	}
	return project, role, nil
}

// UpdateProjectInput holds the metadata fields to change. Nil fields are left alone.
type UpdateProjectInput struct {
	Title       *string
	Description *string
}

// UpdateProject rewrites project metadata. Owner only.
func (s *ProjectService) UpdateProject(ctx context.Context, project *models.Project, callerID string, input UpdateProjectInput) (*models.Project, error) {
	if err := authorize(project, callerID, authz.OpEditProject); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	title := project.Title
	if input.Title != nil {
		title = cleanTitle(*input.Title)
		checkTitle(errs, "title", title)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	project.Title = title
	if input.Description != nil {
		project.Description = cleanDescription(*input.Description)
	}

	if err := saveProject(ctx, s.projects, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project with its members and tasks. Owner only.
func (s *ProjectService) DeleteProject(ctx context.Context, project *models.Project, callerID string) error {
	if err := authorize(project, callerID, authz.OpDeleteProject); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info("project deleted", zap.String("project_id", project.ID), zap.String("by", callerID))
	return nil
}

// saveProject writes metadata and members back as a whole and maps store errors.
func saveProject(ctx context.Context, projects repository.ProjectRepository, project *models.Project) error {
	err := projects.Save(ctx, project)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrProjectNotFound
	case errors.Is(err, repository.ErrDuplicateTitle):
		return ErrDuplicateProjectTitle
	}
	return fmt.Errorf("failed to save project: %w", err)
}
