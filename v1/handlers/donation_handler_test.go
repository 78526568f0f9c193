package handlers

import (
	"net/http"
	"testing"

	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationEndpoints(t *testing.T) {
	api := setupTestAPI(t)
	api.seedMember(t, "treasurer@example.com", rolePtr(models.RoleTreasurer))
	api.seedMember(t, "plain@example.com", nil)

	treasurerCookie := api.login(t, "treasurer@example.com")
	plainCookie := api.login(t, "plain@example.com")

	var donationID string

	t.Run("create requires donation:manage", func(t *testing.T) {
		payload := map[string]interface{}{"donorName": "Ravi Kumar", "amount": 5000, "category": "general"}

		rec := api.do(t, http.MethodPost, "/api/v1/donations", payload, plainCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodPost, "/api/v1/donations", payload, treasurerCookie)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created models.Donation
		decodeBody(t, rec, &created)
		require.NotEmpty(t, created.DonationID)
		donationID = created.DonationID
	})

	t.Run("validation errors are 400", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/donations",
			map[string]interface{}{"donorName": "X", "amount": -1}, treasurerCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "amount must be positive")
	})

	t.Run("any member can read donations", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/donations", nil, plainCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Items []models.Donation `json:"items"`
			Count int               `json:"count"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, 1, body.Count)

		rec = api.do(t, http.MethodGet, "/api/v1/donations/"+donationID, nil, plainCookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update nonexistent donation is 404", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/donations/don_missing",
			map[string]interface{}{"donorName": "X", "amount": 10}, treasurerCookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Donation not found")
	})

	t.Run("mutations appear in the audit trail", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/donations/"+donationID,
			map[string]interface{}{"donorName": "Ravi K", "amount": 6000}, treasurerCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/v1/audit-logs/Donation/"+donationID, nil, treasurerCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Items []models.AuditLog `json:"items"`
			Count int               `json:"count"`
		}
		decodeBody(t, rec, &body)
		require.Equal(t, 2, body.Count)
		// Newest first: the update precedes the create in the list
		assert.Equal(t, models.AuditActionUpdate, body.Items[0].Action)
		assert.Equal(t, models.AuditActionCreate, body.Items[1].Action)
	})

	t.Run("delete then read is 404", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, "/api/v1/donations/"+donationID, nil, treasurerCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/v1/donations/"+donationID, nil, treasurerCookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unsupported method is 405", func(t *testing.T) {
		rec := api.do(t, http.MethodPatch, "/api/v1/donations", nil, treasurerCookie)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
