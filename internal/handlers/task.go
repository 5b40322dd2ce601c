package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// CreateTask adds a task to the Requested column
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), project, userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Attachments: dto.ToAttachments(req.Attachments),
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	got, err := h.taskService.GetTask(c.Request.Context(), project, userID, task.ID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*got))
}

// UpdateTask changes title and/or description
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), project, userID, task.ID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), project, userID, task.ID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// GenerateTasks proposes tasks extracted from free text. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), project, userID, req.Text)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToSuggestedTaskDTOs(suggestions)})
}
