package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleDonations dispatches /api/v1/donations routes
func (h *V1Handler) handleDonations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/donations")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listDonations(w, r)
		case http.MethodPost:
			h.createDonation(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 1 {
		donationID := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.getDonation(w, r, donationID)
		case http.MethodPut:
			h.updateDonation(w, r, donationID)
		case http.MethodDelete:
			h.deleteDonation(w, r, donationID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.donationService.List(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(donations, len(donations)))
}

func (h *V1Handler) createDonation(w http.ResponseWriter, r *http.Request) {
	var donation models.Donation
	if err := utils.ParseJSONRequest(r, &donation); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.donationService.Create(r.Context(), &donation, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *V1Handler) getDonation(w http.ResponseWriter, r *http.Request, donationID string) {
	donation, err := h.donationService.Get(r.Context(), donationID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, donation)
}

func (h *V1Handler) updateDonation(w http.ResponseWriter, r *http.Request, donationID string) {
	var donation models.Donation
	if err := utils.ParseJSONRequest(r, &donation); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.donationService.Update(r.Context(), donationID, &donation, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *V1Handler) deleteDonation(w http.ResponseWriter, r *http.Request, donationID string) {
	if err := h.donationService.Delete(r.Context(), donationID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
