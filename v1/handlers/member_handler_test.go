package handlers

import (
	"net/http"
	"testing"

	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberEndpoints(t *testing.T) {
	api := setupTestAPI(t)
	api.seedMember(t, "president@example.com", rolePtr(models.RolePresident))
	plain := api.seedMember(t, "plain@example.com", nil)

	presidentCookie := api.login(t, "president@example.com")
	plainCookie := api.login(t, "plain@example.com")

	t.Run("listing members requires member:read", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/members", nil, plainCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/v1/members", nil, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Items []models.MemberResponse `json:"items"`
			Count int                     `json:"count"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, 2, body.Count)
		// President sorts before members without a role
		assert.Equal(t, "president@example.com", body.Items[0].Email)
	})

	t.Run("profile update requires member:manage", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID,
			map[string]string{"name": "Renamed"}, plainCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID,
			map[string]string{"name": "Renamed"}, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.MemberResponse
		decodeBody(t, rec, &updated)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("role assignment requires trustee:manage", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID+"/role",
			map[string]string{"role": "Treasurer"}, plainCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID+"/role",
			map[string]string{"role": "Treasurer"}, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.MemberResponse
		decodeBody(t, rec, &updated)
		require.NotNil(t, updated.TrusteeRole)
		assert.Equal(t, models.RoleTreasurer, *updated.TrusteeRole)
		assert.Contains(t, updated.Permissions, models.PermissionManageDonations)
	})

	t.Run("unknown role is a validation error", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID+"/role",
			map[string]string{"role": "Archivist"}, presidentCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("role removal", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, "/api/v1/members/"+plain.MemberID+"/role", nil, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.MemberResponse
		decodeBody(t, rec, &updated)
		assert.Nil(t, updated.TrusteeRole)
	})

	t.Run("permission overrides via endpoint", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID+"/permissions",
			map[string]interface{}{"overrides": map[string]bool{"donation:manage": true}}, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.MemberResponse
		decodeBody(t, rec, &updated)
		assert.Contains(t, updated.Permissions, models.PermissionManageDonations)

		rec = api.do(t, http.MethodPut, "/api/v1/members/"+plain.MemberID+"/permissions",
			map[string]interface{}{"overrides": map[string]bool{"nope:nope": true}}, presidentCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown member is 404", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/members/mem_missing", nil, presidentCookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Member not found")
	})

	t.Run("deletion revokes the member's access", func(t *testing.T) {
		victim := api.seedMember(t, "victim@example.com", nil)
		victimCookie := api.login(t, "victim@example.com")

		rec := api.do(t, http.MethodDelete, "/api/v1/members/"+victim.MemberID, nil, presidentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/v1/auth/me", nil, victimCookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
