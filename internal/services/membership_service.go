package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/authz"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"go.uber.org/zap"
)

// MembershipService manages a project's member list. Every change is a
// read-modify-write of the whole list; concurrent edits are last write wins.
type MembershipService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	log      *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(projects repository.ProjectRepository, users repository.UserRepository, log *zap.Logger) *MembershipService {
	return &MembershipService{
		projects: projects,
		users:    users,
		log:      log,
	}
}

// Member is a membership joined with the user it points at. User holds only
// the ID when the account no longer exists.
type Member struct {
	User     models.User
	Role     models.Role
	JoinedAt time.Time
}

// ListMembers returns members in list order. Any member may read it.
func (s *MembershipService) ListMembers(ctx context.Context, project *models.Project, callerID string) ([]Member, error) {
	if err := authorize(project, callerID, authz.OpReadProject); err != nil {
		return nil, err
	}

	ids := make([]string, len(project.Members))
	for i, m := range project.Members {
		ids[i] = m.UserID
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	members := make([]Member, 0, len(project.Members))
	for _, m := range project.Members {
		user, ok := byID[m.UserID]
		if !ok {
			user = models.User{ID: m.UserID}
		}
		members = append(members, Member{User: user, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	return members, nil
}

// InviteInput identifies the user to add by email.
type InviteInput struct {
	Email string
	Role  string
}

// Invite adds an existing user to the project. Owner only.
func (s *MembershipService) Invite(ctx context.Context, project *models.Project, callerID string, input InviteInput) (*Member, error) {
	if err := authorize(project, callerID, authz.OpManageMembers); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, &ValidationError{Fields: map[string]string{"email": "is required"}}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if _, exists := project.Member(user.ID); exists {
		return nil, ErrAlreadyMember
	}

	joined := time.Now()
	project.Members = append(project.Members, models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  joined,
	})
	if err := saveProject(ctx, s.projects, project); err != nil {
		return nil, err
	}

	s.log.Info("member invited",
		zap.String("project_id", project.ID),
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
	)
	return &Member{User: *user, Role: role, JoinedAt: joined}, nil
}

// ChangeRole overwrites a member's role in place. Owner only. Promoting
// additional Owners and demoting the last one are both allowed.
func (s *MembershipService) ChangeRole(ctx context.Context, project *models.Project, callerID, userID, newRole string) (*Member, error) {
	if err := authorize(project, callerID, authz.OpManageMembers); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(newRole)
	if err != nil {
		return nil, ErrInvalidRole
	}
	member, ok := project.Member(userID)
	if !ok {
		return nil, ErrMemberNotFound
	}

	member.Role = role
	if err := saveProject(ctx, s.projects, project); err != nil {
		return nil, err
	}

	result := &Member{User: models.User{ID: userID}, Role: role, JoinedAt: member.JoinedAt}
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		result.User = *user
	}
	return result, nil
}

// RemoveMember drops a member from the project. Owner only; removing the
// last Owner is not prevented.
func (s *MembershipService) RemoveMember(ctx context.Context, project *models.Project, callerID, userID string) error {
	if err := authorize(project, callerID, authz.OpManageMembers); err != nil {
		return err
	}

	idx := -1
	for i, m := range project.Members {
		if m.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrMemberNotFound
	}

	project.Members = append(project.Members[:idx], project.Members[idx+1:]...)
	if err := saveProject(ctx, s.projects, project); err != nil {
		return err
	}

	s.log.Info("member removed", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
