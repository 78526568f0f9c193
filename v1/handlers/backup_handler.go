package handlers

import (
	"net/http"

	"github.com/seva-trust/portal-backend/shared/utils"
)

// handleBackup serves the full JSON export
func (h *V1Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	export, err := h.backupService.Export(r.Context())
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="trust-portal-backup.json"`)
	utils.RespondWithJSON(w, http.StatusOK, export)
}

// handleStats serves dashboard counts
func (h *V1Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.backupService.Stats(r.Context())
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
