package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

// bindJSON decodes the body into req. Malformed JSON is a 400; rule
// violations go to onInvalid with one message per field.
func bindJSON(c *gin.Context, req interface{}, onInvalid func(*gin.Context, map[string]string)) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		onInvalid(c, fieldMessages(verrs))
		return false
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		apierrors.BadRequest(c, "Malformed JSON")
	case errors.As(err, &typeErr):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			typeErr.Field: fmt.Sprintf("must be %s", typeErr.Type),
		})
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
	return false
}

func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonFieldName(fe)] = ruleMessage(fe)
	}
	return out
}

// jsonFieldName lowercases the struct path gin reports, e.g.
// "CreateTaskRequest.Attachments[0].URL" becomes "attachments[0].url".
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return fmt.Sprintf("failed the %q rule", fe.Tag())
}

// respondServiceError maps service-layer errors to the shared API error shapes.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateProjectTitle),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		apierrors.InternalError(c, "")
	}
}

// projectCaller returns the caller and the project loaded by RequireProjectAccess.
func projectCaller(c *gin.Context) (string, *models.Project, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", nil, false
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return "", nil, false
	}
	return userID, project, true
}
