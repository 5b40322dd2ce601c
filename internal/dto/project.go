package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// CreateProjectRequest is the body of POST /project
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=10000"`
}

// UpdateProjectRequest is the body of PUT /project/:id. Omitted fields are unchanged.
type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
}

// InviteMemberRequest is the body of POST /project/:id/members
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ChangeRoleRequest is the body of PUT /project/:id/members/:userId
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberRefDTO is a membership as stored on the project
type MemberRefDTO struct {
	UserID   string      `json:"user_id"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// MemberDTO is a membership joined with the user record
type MemberDTO struct {
	User     UserDTO     `json:"user"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// ProjectDTO represents a project in list responses (no tasks)
type ProjectDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Members     []MemberRefDTO `json:"members"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProjectDetailDTO is the full aggregate plus the caller's role
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks    []TaskDTO   `json:"tasks"`
	YourRole models.Role `json:"your_role"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	members := make([]MemberRefDTO, len(project.Members))
	for i, m := range project.Members {
		members[i] = MemberRefDTO{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Members:     members,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectDetailDTO converts the full aggregate, tasks included
func ToProjectDetailDTO(project models.Project, yourRole models.Role) ProjectDetailDTO {
	tasks := make([]TaskDTO, len(project.Tasks))
	for i, t := range project.Tasks {
		tasks[i] = ToTaskDTO(t)
	}
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      tasks,
		YourRole:   yourRole,
	}
}

// ToProjectListResponse converts a page of projects
func ToProjectListResponse(projects []models.Project, params utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = ToProjectDTO(p)
	}
	return ProjectListResponse{
		Projects:   items,
		Pagination: params.Response(total),
	}
}

// ToMemberDTO converts a resolved membership
func ToMemberDTO(member services.Member) MemberDTO {
	return MemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}
