package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/auth"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth          *services.AuthService
	Projects      *services.ProjectService
	Members       *services.MembershipService
	Tasks         *services.TaskService
	Board         *services.BoardService
	Authenticator *auth.Authenticator
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(svc Services, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Tracing(), middleware.RequestLogger(log))

	authHandler := NewAuthHandler(svc.Auth, log)
	projectHandler := NewProjectHandler(svc.Projects, log)
	memberHandler := NewMemberHandler(svc.Members, log)
	taskHandler := NewTaskHandler(svc.Tasks, log)
	boardHandler := NewBoardHandler(svc.Board, log)

	requireAuth := middleware.RequireAuth(svc.Authenticator, log)
	projectAccess := middleware.RequireProjectAccess(svc.Projects, log)
	projectTask := middleware.RequireProjectTask()

	r.GET("/health", Health)

	// Auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
		authGroup.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	// Project routes (protected)
	r.GET("/projects", requireAuth, projectHandler.ListProjects)
	r.POST("/project", requireAuth, projectHandler.CreateProject)

	project := r.Group("/project/:id", requireAuth, projectAccess)
	{
		project.GET("", projectHandler.GetProject)
		project.PUT("", projectHandler.UpdateProject)
		project.DELETE("", projectHandler.DeleteProject)

		project.PUT("/todo", boardHandler.Reorder)

		project.POST("/task", taskHandler.CreateTask)
		project.POST("/task/generate", taskHandler.GenerateTasks)
		project.GET("/task/:taskId", projectTask, taskHandler.GetTask)
		project.PUT("/task/:taskId", projectTask, taskHandler.UpdateTask)
		project.DELETE("/task/:taskId", projectTask, taskHandler.DeleteTask)

		project.GET("/members", memberHandler.ListMembers)
		project.POST("/members", memberHandler.InviteMember)
		project.PUT("/members/:userId", memberHandler.ChangeRole)
		project.DELETE("/members/:userId", memberHandler.RemoveMember)
	}

	return r
}
