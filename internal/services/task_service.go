package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard-api/internal/authz"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"go.uber.org/zap"
)

// TaskService handles single-task operations on a project's board.
type TaskService struct {
	projects  repository.ProjectRepository
	suggester TaskSuggester
	log       *zap.Logger
}

// NewTaskService creates a new TaskService. suggester may be nil, in which
// case SuggestTasks reports ErrAIUnavailable.
func NewTaskService(projects repository.ProjectRepository, suggester TaskSuggester, log *zap.Logger) *TaskService {
	return &TaskService{
		projects:  projects,
		suggester: suggester,
		log:       log,
	}
}

// CreateTaskInput represents parameters to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Attachments []models.Attachment
}

// CreateTask appends a task to the Requested column. Its order is the
// project's current task count. The store assigns its index.
func (s *TaskService) CreateTask(ctx context.Context, project *models.Project, callerID string, input CreateTaskInput) (*models.Task, error) {
	if err := authorize(project, callerID, authz.OpCreateTask); err != nil {
		return nil, err
	}

	title := cleanTitle(input.Title)
	description := cleanDescription(input.Description)

	errs := fieldErrors{}
	checkTitle(errs, "title", title)
	if description == "" {
		errs["description"] = "is required"
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Title:       title,
		Description: description,
		Stage:       models.InitialStage,
		Order:       len(project.Tasks),
		Attachments: attachments,
	}

	if err := s.projects.AddTask(ctx, project.ID, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	project.Tasks = append(project.Tasks, *task)
	project.LastTaskIndex = task.Index
	return task, nil
}

// GetTask returns one task. Any member may read it.
func (s *TaskService) GetTask(ctx context.Context, project *models.Project, callerID, taskID string) (*models.Task, error) {
	if err := authorize(project, callerID, authz.OpReadProject); err != nil {
		return nil, err
	}
	task, ok := project.Task(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// UpdateTaskInput holds the content fields to change. Stage and order only
// move through a board reorder.
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// UpdateTask rewrites a task's title and description.
func (s *TaskService) UpdateTask(ctx context.Context, project *models.Project, callerID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if err := authorize(project, callerID, authz.OpEditTask); err != nil {
		return nil, err
	}
	task, ok := project.Task(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	errs := fieldErrors{}
	title, description := task.Title, task.Description
	if input.Title != nil {
		title = cleanTitle(*input.Title)
		checkTitle(errs, "title", title)
	}
	if input.Description != nil {
		description = cleanDescription(*input.Description)
		if description == "" {
			errs["description"] = "is required"
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	updated := *task
	updated.Title = title
	updated.Description = description
	if err := s.projects.UpdateTaskContent(ctx, project.ID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	*task = updated
	return task, nil
}

// DeleteTask removes a task outright. Surviving orders are not renumbered.
func (s *TaskService) DeleteTask(ctx context.Context, project *models.Project, callerID, taskID string) error {
	if err := authorize(project, callerID, authz.OpDeleteTask); err != nil {
		return err
	}
	if _, ok := project.Task(taskID); !ok {
		return ErrTaskNotFound
	}

	if err := s.projects.DeleteTask(ctx, project.ID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.Info("task deleted", zap.String("project_id", project.ID), zap.String("task_id", taskID))
	return nil
}

// SuggestTasks extracts task suggestions from free text without saving them.
func (s *TaskService) SuggestTasks(ctx context.Context, project *models.Project, callerID, text string) ([]SuggestedTask, error) {
	if err := authorize(project, callerID, authz.OpCreateTask); err != nil {
		return nil, err
	}
	if s.suggester == nil {
		return nil, ErrAIUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "is required"}}
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	cleaned := make([]SuggestedTask, 0, len(suggestions))
	for _, sg := range suggestions {
		title := cleanTitle(sg.Title)
		if title == "" {
			continue
		}
		cleaned = append(cleaned, SuggestedTask{Title: title, Description: cleanDescription(sg.Description)})
		if len(cleaned) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	return cleaned, nil
}
