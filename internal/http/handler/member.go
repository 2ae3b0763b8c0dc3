package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/service"
)

type MemberHandler struct {
	memberService service.MembershipService
}

func NewMemberHandler(memberService service.MembershipService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	members, err := h.memberService.List(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberResponses(members)})
}

func (h *MemberHandler) ListPending(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	members, err := h.memberService.ListPending(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberResponses(members)})
}

func (h *MemberHandler) Invite(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: email and role are required")
		return
	}

	result, err := h.memberService.Invite(c.Request.Context(), actorID(c), orgID, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.InviteResponse{InviteURL: result.InviteURL}
	if result.Membership != nil {
		resp.Membership = dto.ToMembershipResponse(result.Membership)
	}
	if result.Invitation != nil {
		resp.Invitation = dto.ToInvitationResponse(result.Invitation)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberID")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: role is required")
		return
	}

	m, err := h.memberService.UpdateRole(c.Request.Context(), actorID(c), orgID, memberID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(m))
}

func (h *MemberHandler) Remove(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberID")
	if !ok {
		return
	}

	if err := h.memberService.Remove(c.Request.Context(), actorID(c), orgID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Accept joins the caller's own pending membership.
func (h *MemberHandler) Accept(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	m, err := h.memberService.Accept(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(m))
}
