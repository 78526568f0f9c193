package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/middleware"
	"github.com/seva-trust/portal-backend/v1/models"
)

// actorID returns the authenticated member's ID for audit attribution
func actorID(r *http.Request) string {
	if member := middleware.MemberFromRequest(r); member != nil {
		return member.MemberID
	}
	return ""
}

// handleMembers dispatches /api/v1/members routes
func (h *V1Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/members")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/members
	if len(parts) == 1 && parts[0] == "" {
		if r.Method == http.MethodGet {
			h.listMembers(w, r)
			return
		}
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	memberID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getMember(w, r, memberID)
		case http.MethodPut:
			h.updateMember(w, r, memberID)
		case http.MethodDelete:
			h.deleteMember(w, r, memberID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 2 {
		switch {
		case parts[1] == "approve" && r.Method == http.MethodPost:
			h.approveMember(w, r, memberID)
			return
		case parts[1] == "role" && r.Method == http.MethodPut:
			h.assignRole(w, r, memberID)
			return
		case parts[1] == "role" && r.Method == http.MethodDelete:
			h.clearRole(w, r, memberID)
			return
		case parts[1] == "permissions" && r.Method == http.MethodPut:
			h.setOverrides(w, r, memberID)
			return
		}
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	members, err := h.memberService.List(r.Context(),
		q.Get("search"),
		models.AccountStatus(q.Get("status")),
		models.TrusteeRole(q.Get("role")))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(members, len(members)))
}

func (h *V1Handler) getMember(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.Get(r.Context(), memberID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) updateMember(w http.ResponseWriter, r *http.Request, memberID string) {
	var req models.UpdateMemberRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.Update(r.Context(), memberID, &req, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) deleteMember(w http.ResponseWriter, r *http.Request, memberID string) {
	if err := h.memberService.Delete(r.Context(), memberID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *V1Handler) approveMember(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.Approve(r.Context(), memberID, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) assignRole(w http.ResponseWriter, r *http.Request, memberID string) {
	var req models.AssignRoleRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.AssignRole(r.Context(), memberID, &req, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) clearRole(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.ClearRole(r.Context(), memberID, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) setOverrides(w http.ResponseWriter, r *http.Request, memberID string) {
	var req models.SetOverridesRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.SetOverrides(r.Context(), memberID, req.Overrides, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}
