package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleLinks dispatches /api/v1/links routes
func (h *V1Handler) handleLinks(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/links")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listLinks(w, r)
		case http.MethodPost:
			h.createLink(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 1 {
		linkID := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.getLink(w, r, linkID)
		case http.MethodPut:
			h.updateLink(w, r, linkID)
		case http.MethodDelete:
			h.deleteLink(w, r, linkID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.linkService.List(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(links, len(links)))
}

func (h *V1Handler) createLink(w http.ResponseWriter, r *http.Request) {
	var link models.Link
	if err := utils.ParseJSONRequest(r, &link); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.linkService.Create(r.Context(), &link, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *V1Handler) getLink(w http.ResponseWriter, r *http.Request, linkID string) {
	link, err := h.linkService.Get(r.Context(), linkID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, link)
}

func (h *V1Handler) updateLink(w http.ResponseWriter, r *http.Request, linkID string) {
	var link models.Link
	if err := utils.ParseJSONRequest(r, &link); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.linkService.Update(r.Context(), linkID, &link, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *V1Handler) deleteLink(w http.ResponseWriter, r *http.Request, linkID string) {
	if err := h.linkService.Delete(r.Context(), linkID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
