// Package authz decides what a project member may do.
//
// Capability matrix:
//   - Owner: everything, including project metadata and membership
//   - Member: read, task create/edit/delete, board reorder
//   - Viewer: read only
//   - no membership: nothing (project creation is not project-scoped)
package authz

import "github.com/yukikurage/taskboard-api/internal/models"

type Operation int

const (
	OpReadProject Operation = iota
	OpEditProject
	OpDeleteProject
	OpManageMembers
	OpCreateTask
	OpEditTask
	OpDeleteTask
	OpReorderBoard
)

func (op Operation) String() string {
	switch op {
	case OpReadProject:
		return "read project"
	case OpEditProject:
		return "edit project"
	case OpDeleteProject:
		return "delete project"
	case OpManageMembers:
		return "manage members"
	case OpCreateTask:
		return "create task"
	case OpEditTask:
		return "edit task"
	case OpDeleteTask:
		return "delete task"
	case OpReorderBoard:
		return "reorder board"
	}
	return "unknown"
}

// Allows reports whether role may perform op. Unknown roles and operations are denied.
func Allows(role models.Role, op Operation) bool {
	switch role {
	case models.RoleOwner:
		return op >= OpReadProject && op <= OpReorderBoard
	case models.RoleMember:
		switch op {
		case OpReadProject, OpCreateTask, OpEditTask, OpDeleteTask, OpReorderBoard:
			return true
		}
		return false
	case models.RoleViewer:
		return op == OpReadProject
	}
	return false
}

// RoleOf returns the caller's role in project, or false when the caller is not a member.
func RoleOf(project *models.Project, userID string) (models.Role, bool) {
	if project == nil {
		return "", false
	}
	member, ok := project.Member(userID)
	if !ok {
		return "", false
	}
	return member.Role, true
}

// Check combines RoleOf and Allows.
func Check(project *models.Project, userID string, op Operation) (member bool, allowed bool) {
	role, ok := RoleOf(project, userID)
	if !ok {
		return false, false
	}
	return true, Allows(role, op)
}
