package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	log            *zap.Logger
}

func NewProjectHandler(projectService *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects the caller is a member of
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projectService.ListProjects(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params, total))
}

// GetProject returns the full project with its tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	_, project, ok := projectCaller(c)
	if !ok {
		return
	}
	role, _ := middleware.GetProjectRole(c)

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, role))
}

// UpdateProject changes title and/or description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	updated, err := h.projectService.UpdateProject(c.Request.Context(), project, userID, services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes the project and everything in it
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), project, userID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
