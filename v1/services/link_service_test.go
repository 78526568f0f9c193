package services

import (
	"context"
	"testing"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCRUD(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewLinkService(db, NewAuditService(db))
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Link{
		Title:    "Donation portal",
		URL:      "https://donate.example.org",
		Category: "finance",
	}, "mem_actor")
	require.NoError(t, err)
	assert.NotEmpty(t, created.LinkID)

	t.Run("title and url are both required", func(t *testing.T) {
		_, err := svc.Create(ctx, &models.Link{Title: "No URL"}, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("list orders by category then title", func(t *testing.T) {
		_, err := svc.Create(ctx, &models.Link{
			Title: "Board minutes", URL: "https://docs.example.org", Category: "admin",
		}, "mem_actor")
		require.NoError(t, err)
		_, err = svc.Create(ctx, &models.Link{
			Title: "Annual report", URL: "https://report.example.org", Category: "admin",
		}, "mem_actor")
		require.NoError(t, err)

		links, err := svc.List(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "Annual report", links[0].Title)
		assert.Equal(t, "Board minutes", links[1].Title)
		assert.Equal(t, "Donation portal", links[2].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		links, err := svc.List(ctx, "", "admin")
		require.NoError(t, err)
		assert.Len(t, links, 2)
	})

	t.Run("update and delete round-trip", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.LinkID, &models.Link{
			Title: "Donate here", URL: "https://donate.example.org/v2",
		}, "mem_actor")
		require.NoError(t, err)
		assert.Equal(t, "Donate here", updated.Title)
		assert.Empty(t, updated.Category)

		require.NoError(t, svc.Delete(ctx, created.LinkID, "mem_actor"))
		_, err = svc.Get(ctx, created.LinkID)
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Link not found", apiErr.Message)
	})
}
