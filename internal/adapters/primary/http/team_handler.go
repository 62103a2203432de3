package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
	"github.com/calliko/statuspage-backend/internal/auth"
	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// TeamHandler handles team membership and invite requests.
type TeamHandler struct {
	teamService  ports.TeamService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService ports.TeamService, tokenManager *auth.TokenManager, errorHandler *ErrorHandler) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
	}
}

// RegisterRoutes mounts the team endpoints.
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/members", h.HandleListMembers)
	r.Patch("/members/{memberID}/role", h.HandleUpdateMemberRole)
	r.Delete("/members/{memberID}", h.HandleRemoveMember)
	r.Post("/quick-add", h.HandleQuickAdd)

	r.Get("/invites", h.HandleListInvites)
	r.Post("/invites", h.HandleCreateInvite)
	r.Delete("/invites/{inviteID}", h.HandleRevokeInvite)
}

// CreateInviteRequest is the payload for POST /teams/invites.
type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateMemberRoleRequest is the payload for PATCH /teams/members/{id}/role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// QuickAddRequest is the payload for POST /teams/quick-add.
type QuickAddRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// QuickAddResponse carries the new membership plus a session token for the
// provisioned account, so the admin can hand access over directly.
type QuickAddResponse struct {
	Member       MemberDTO       `json:"member"`
	Token        string          `json:"token"`
	Organization OrganizationDTO `json:"organization"`
}

// HandleListMembers returns the organization's members.
func (h *TeamHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), actor)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toMemberDTOs(members))
}

// HandleUpdateMemberRole changes a member's role.
func (h *TeamHandler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	memberID, err := pathID(r, "memberID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateMemberRoleRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	member, err := h.teamService.UpdateMemberRole(r.Context(), actor, memberID, domain.MemberRole(req.Role))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toMemberDTO(member))
}

// HandleRemoveMember removes a member from the organization.
func (h *TeamHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	memberID, err := pathID(r, "memberID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), actor, memberID); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteNoContent(w)
}

// HandleQuickAdd provisions a member directly and returns a session token
// for the account alongside the membership.
func (h *TeamHandler) HandleQuickAdd(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[QuickAddRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("email", req.Email).
		Email("email", req.Email).
		Required("fullName", req.FullName)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	result, err := h.teamService.QuickAddMember(r.Context(), actor, ports.QuickAddParams{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     domain.MemberRole(req.Role),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	token, err := h.tokenManager.GenerateToken(result.User.ID, result.Organization.ID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, QuickAddResponse{
		Member:       toMemberDTO(result.Member),
		Token:        token,
		Organization: toOrganizationDTO(result.Organization),
	})
}

// HandleListInvites returns the organization's pending invites.
func (h *TeamHandler) HandleListInvites(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	invites, err := h.teamService.ListInvites(r.Context(), actor)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toInviteDTOs(invites))
}

// HandleCreateInvite issues an invite and mails the recipient a join link.
func (h *TeamHandler) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[CreateInviteRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("email", req.Email).
		Email("email", req.Email).
		Required("role", req.Role)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	invite, err := h.teamService.CreateInvite(r.Context(), actor, ports.CreateInviteParams{
		Email: req.Email,
		Role:  domain.MemberRole(req.Role),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, toInviteDTO(invite))
}

// HandleRevokeInvite withdraws a pending invite.
func (h *TeamHandler) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	inviteID, err := pathID(r, "inviteID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if err := h.teamService.RevokeInvite(r.Context(), actor, inviteID); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteNoContent(w)
}
