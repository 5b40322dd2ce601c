package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// RequireProjectTask resolves :taskId inside the project loaded by
// RequireProjectAccess
func RequireProjectTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := GetProject(c)
		if !ok {
			apierrors.NotFound(c, "Project not found")
			return
		}

		task, ok := project.Task(c.Param("taskId"))
		if !ok {
			apierrors.NotFound(c, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task resolved by RequireProjectTask
func GetTask(c *gin.Context) (*models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := v.(*models.Task)
	return task, ok
}
