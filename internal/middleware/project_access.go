package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

// RequireProjectAccess loads the project named by :id and checks the caller
// is one of its members. Outsiders get 404 so project existence does not leak.
func RequireProjectAccess(projects *services.ProjectService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		project, role, err := projects.LoadProject(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
				return
			}
			log.Error("failed to load project", zap.String("project_id", c.Param("id")), zap.Error(err))
			apierrors.InternalError(c, "Failed to load project")
			return
		}

		// Store project and role in context
		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyRole, role)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	v, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := v.(*models.Project)
	return project, ok
}

// GetProjectRole retrieves the caller's role in the loaded project
func GetProjectRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
