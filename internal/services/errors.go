package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/authz"
	"github.com/yukikurage/taskboard-api/internal/models"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrForbidden             = errors.New("your role does not allow this operation")
	ErrDuplicateProjectTitle = errors.New("a project with this title already exists")
	ErrAlreadyMember         = errors.New("user is already a member of this project")
	ErrInvalidRole           = errors.New("role must be one of Owner, Member, Viewer")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAIUnavailable         = errors.New("task suggestions are not configured")
)

// ValidationError carries per-field problems found before any state changed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// authorize evaluates the role matrix for callerID. Non-members get
// ErrProjectNotFound so project existence is not revealed to outsiders.
func authorize(project *models.Project, callerID string, op authz.Operation) error {
	member, allowed := authz.Check(project, callerID, op)
	if !member {
		return ErrProjectNotFound
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}
