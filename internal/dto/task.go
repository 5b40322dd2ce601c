package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// AttachmentRequest is one attachment supplied at task creation
type AttachmentRequest struct {
	Kind string `json:"kind" binding:"required,max=50"`
	URL  string `json:"url" binding:"required,url"`
}

// CreateTaskRequest is the body of POST /project/:id/task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required,min=3,max=100"`
	Description string              `json:"description" binding:"required"`
	Attachments []AttachmentRequest `json:"attachments" binding:"omitempty,dive"`
}

// UpdateTaskRequest is the body of PUT /project/:id/task/:taskId
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,min=1"`
}

// GenerateTasksRequest is the body of POST /project/:id/task/generate
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required,max=20000"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Stage       models.Stage        `json:"stage"`
	Order       int                 `json:"order"`
	Index       int                 `json:"index"`
	Attachments []models.Attachment `json:"attachments"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// SuggestedTaskDTO is an unsaved task proposed by the model
type SuggestedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	attachments := []models.Attachment(task.Attachments)
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Stage:       task.Stage,
		Order:       task.Order,
		Index:       task.Index,
		Attachments: attachments,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToAttachments converts request attachments to the model type
func ToAttachments(reqs []AttachmentRequest) []models.Attachment {
	out := make([]models.Attachment, len(reqs))
	for i, r := range reqs {
		out[i] = models.Attachment{Kind: r.Kind, URL: r.URL}
	}
	return out
}

// ToSuggestedTaskDTOs converts model suggestions
func ToSuggestedTaskDTOs(suggestions []services.SuggestedTask) []SuggestedTaskDTO {
	out := make([]SuggestedTaskDTO, len(suggestions))
	for i, s := range suggestions {
		out[i] = SuggestedTaskDTO{Title: s.Title, Description: s.Description}
	}
	return out
}
