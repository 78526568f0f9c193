package handlers

import (
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleExpenses dispatches /api/v1/expenses routes
func (h *V1Handler) handleExpenses(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/expenses")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listExpenses(w, r)
		case http.MethodPost:
			h.createExpense(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 1 {
		expenseID := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.getExpense(w, r, expenseID)
		case http.MethodPut:
			h.updateExpense(w, r, expenseID)
		case http.MethodDelete:
			h.deleteExpense(w, r, expenseID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.List(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(expenses, len(expenses)))
}

func (h *V1Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := utils.ParseJSONRequest(r, &expense); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.expenseService.Create(r.Context(), &expense, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *V1Handler) getExpense(w http.ResponseWriter, r *http.Request, expenseID string) {
	expense, err := h.expenseService.Get(r.Context(), expenseID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, expense)
}

func (h *V1Handler) updateExpense(w http.ResponseWriter, r *http.Request, expenseID string) {
	var expense models.Expense
	if err := utils.ParseJSONRequest(r, &expense); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.expenseService.Update(r.Context(), expenseID, &expense, actorID(r))
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *V1Handler) deleteExpense(w http.ResponseWriter, r *http.Request, expenseID string) {
	if err := h.expenseService.Delete(r.Context(), expenseID, actorID(r)); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
