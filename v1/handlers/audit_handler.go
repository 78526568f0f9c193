package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleAuditLogs dispatches /api/v1/audit-logs routes.
//
//	GET /api/v1/audit-logs                            paged, filtered
//	GET /api/v1/audit-logs/:entityType/:entityId      all entries for one entity
func (h *V1Handler) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/audit-logs")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 2 && parts[0] != "" {
		logs, err := h.auditService.GetLogsForEntity(r.Context(), parts[0], parts[1])
		if err != nil {
			utils.RespondWithAPIError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.CreateCollectionResponse(logs, len(logs)))
		return
	}
	if len(parts) != 1 || parts[0] != "" {
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	h.listAuditLogs(w, r)
}

// listAuditLogs supports entityType, entityId, action and search filters with
// either page/pageSize or limit/offset style pagination.
func (h *V1Handler) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.AuditLogFilter{
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		Action:     q.Get("action"),
		Search:     q.Get("search"),
	}

	pageSize := 50
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			pageSize = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			pageSize = n
		}
	}
	filter.Limit = pageSize

	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			filter.Offset = (page - 1) * pageSize
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	page, err := h.auditService.GetRecentLogs(r.Context(), filter)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}
