package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleWorkshopResources dispatches /api/v1/workshop-resources routes
func (h *V1Handler) handleWorkshopResources(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/workshop-resources")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listWorkshopResources(w, r)
		case http.MethodPost:
			h.createWorkshopResource(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 1 {
		resourceID := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.getWorkshopResource(w, r, resourceID)
		case http.MethodPut:
			h.updateWorkshopResource(w, r, resourceID)
		case http.MethodDelete:
			h.deleteWorkshopResource(w, r, resourceID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listWorkshopResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resources, err := h.workshopService.List(r.Context(), q.Get("search"), q.Get("category"), q.Get("type"))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(resources, len(resources)))
}

func (h *V1Handler) createWorkshopResource(w http.ResponseWriter, r *http.Request) {
	var resource models.WorkshopResource
	if err := utils.ParseJSONRequest(r, &resource); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.workshopService.Create(r.Context(), &resource, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *V1Handler) getWorkshopResource(w http.ResponseWriter, r *http.Request, resourceID string) {
	resource, err := h.workshopService.Get(r.Context(), resourceID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resource)
}

func (h *V1Handler) updateWorkshopResource(w http.ResponseWriter, r *http.Request, resourceID string) {
	var resource models.WorkshopResource
	if err := utils.ParseJSONRequest(r, &resource); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.workshopService.Update(r.Context(), resourceID, &resource, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *V1Handler) deleteWorkshopResource(w http.ResponseWriter, r *http.Request, resourceID string) {
	if err := h.workshopService.Delete(r.Context(), resourceID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
