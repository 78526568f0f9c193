package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleActivities dispatches /api/v1/activities routes, including the
// participant sub-resource.
func (h *V1Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/activities")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listActivities(w, r)
		case http.MethodPost:
			h.createActivity(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	activityID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getActivity(w, r, activityID)
		case http.MethodPut:
			h.updateActivity(w, r, activityID)
		case http.MethodDelete:
			h.deleteActivity(w, r, activityID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Participant sub-resource: /api/v1/activities/:id/participants[/:memberId]
	if len(parts) == 2 && parts[1] == "participants" {
		switch r.Method {
		case http.MethodGet:
			h.listParticipants(w, r, activityID)
		case http.MethodPost:
			h.addParticipant(w, r, activityID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}
	if len(parts) == 3 && parts[1] == "participants" && r.Method == http.MethodDelete {
		h.removeParticipant(w, r, activityID, parts[2])
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activities, err := h.activityService.List(r.Context(), q.Get("search"), q.Get("category"), q.Get("status"))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(activities, len(activities)))
}

func (h *V1Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var activity models.Activity
	if err := utils.ParseJSONRequest(r, &activity); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.activityService.Create(r.Context(), &activity, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *V1Handler) getActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	activity, err := h.activityService.Get(r.Context(), activityID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, activity)
}

func (h *V1Handler) updateActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	var activity models.Activity
	if err := utils.ParseJSONRequest(r, &activity); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.activityService.Update(r.Context(), activityID, &activity, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *V1Handler) deleteActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	if err := h.activityService.Delete(r.Context(), activityID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *V1Handler) listParticipants(w http.ResponseWriter, r *http.Request, activityID string) {
	participants, err := h.activityService.GetParticipants(r.Context(), activityID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(participants, len(participants)))
}

func (h *V1Handler) addParticipant(w http.ResponseWriter, r *http.Request, activityID string) {
	var req struct {
		MemberID string `json:"memberId"`
	}
	if err := utils.ParseJSONRequest(r, &req); err != nil || req.MemberID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "memberId is required")
		return
	}

	if err := h.activityService.AddParticipant(r.Context(), activityID, req.MemberID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "participant added"})
}

func (h *V1Handler) removeParticipant(w http.ResponseWriter, r *http.Request, activityID, memberID string) {
	if err := h.activityService.RemoveParticipant(r.Context(), activityID, memberID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "participant removed"})
}
