package services

import (
	"context"
	"testing"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkshopResourceCRUD(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewWorkshopService(db, NewAuditService(db))
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.WorkshopResource{
		Title:    "Bookkeeping basics",
		Type:     "video",
		URL:      "https://videos.example.org/bookkeeping",
		Category: "finance",
	}, "mem_actor")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ResourceID)

	_, err = svc.Create(ctx, &models.WorkshopResource{
		Title: "Volunteer handbook", Type: "document", Category: "onboarding",
	}, "mem_actor")
	require.NoError(t, err)

	t.Run("title is required", func(t *testing.T) {
		_, err := svc.Create(ctx, &models.WorkshopResource{Type: "video"}, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("type filter narrows the list", func(t *testing.T) {
		resources, err := svc.List(ctx, "", "", "video")
		require.NoError(t, err)
		require.Len(t, resources, 1)
		assert.Equal(t, created.ResourceID, resources[0].ResourceID)
	})

	t.Run("list orders by category then title", func(t *testing.T) {
		resources, err := svc.List(ctx, "", "", "")
		require.NoError(t, err)
		require.Len(t, resources, 2)
		assert.Equal(t, "finance", resources[0].Category)
		assert.Equal(t, "onboarding", resources[1].Category)
	})

	t.Run("update, delete, not found", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ResourceID, &models.WorkshopResource{
			Title: "Bookkeeping basics, part 2", Type: "video",
		}, "mem_actor")
		require.NoError(t, err)
		assert.Empty(t, updated.Category)

		require.NoError(t, svc.Delete(ctx, created.ResourceID, "mem_actor"))
		_, err = svc.Get(ctx, created.ResourceID)
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Workshop resource not found", apiErr.Message)
	})
}
