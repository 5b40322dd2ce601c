package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

type MemberHandler struct {
	membershipService *services.MembershipService
	log               *zap.Logger
}

func NewMemberHandler(membershipService *services.MembershipService, log *zap.Logger) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
		log:               log,
	}
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	members, err := h.membershipService.ListMembers(c.Request.Context(), project, userID)
	if err != nil {
		h.respondMemberError(c, err)
		return
	}

	out := make([]dto.MemberDTO, len(members))
	for i, m := range members {
		out[i] = dto.ToMemberDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// InviteMember adds an existing user by email
func (h *MemberHandler) InviteMember(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if !bindJSON(c, &req, badRequestDetails) {
		return
	}

	member, err := h.membershipService.Invite(c.Request.Context(), project, userID, services.InviteInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

func (h *MemberHandler) ChangeRole(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !bindJSON(c, &req, badRequestDetails) {
		return
	}

	member, err := h.membershipService.ChangeRole(c.Request.Context(), project, userID, c.Param("userId"), req.Role)
	if err != nil {
		h.respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), project, userID, c.Param("userId")); err != nil {
		h.respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// Membership input problems are plain 400s rather than 422s.
func (h *MemberHandler) respondMemberError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		badRequestDetails(c, verr.Fields)
		return
	}
	respondServiceError(c, h.log, err)
}

func badRequestDetails(c *gin.Context, details map[string]string) {
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}
