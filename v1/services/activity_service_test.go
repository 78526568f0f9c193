package services

import (
	"context"
	"testing"
	"time"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedActivity(t *testing.T, svc *ActivityService, title string, start time.Time) *models.Activity {
	t.Helper()
	created, err := svc.Create(context.Background(), &models.Activity{Title: title, StartTime: start}, "mem_actor")
	require.NoError(t, err)
	return created
}

func TestActivityCreate(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewActivityService(db, NewAuditService(db))
	ctx := context.Background()

	t.Run("defaults to planned status", func(t *testing.T) {
		created, err := svc.Create(ctx, &models.Activity{
			Title:     "Annual Meetup",
			StartTime: time.Now().UTC().Add(48 * time.Hour),
		}, "mem_actor")
		require.NoError(t, err)
		assert.Equal(t, models.ActivityStatusPlanned, created.Status)
	})

	t.Run("requires a title and start time", func(t *testing.T) {
		_, err := svc.Create(ctx, &models.Activity{StartTime: time.Now()}, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)

		_, err = svc.Create(ctx, &models.Activity{Title: "No Time"}, "mem_actor")
		apiErr, ok = apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})
}

func TestActivityList(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewActivityService(db, NewAuditService(db))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedActivity(t, svc, "Later Workshop", base.Add(72*time.Hour))
	seedActivity(t, svc, "Earlier Cleanup", base)
	cancelled := seedActivity(t, svc, "Cancelled Drive", base.Add(24*time.Hour))
	cancelled.Status = models.ActivityStatusCancelled
	_, err := svc.Update(ctx, cancelled.ActivityID, cancelled, "mem_actor")
	require.NoError(t, err)

	t.Run("ordered by start time ascending", func(t *testing.T) {
		activities, err := svc.List(ctx, "", "", "")
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, "Earlier Cleanup", activities[0].Title)
		assert.Equal(t, "Later Workshop", activities[2].Title)
	})

	t.Run("status filter", func(t *testing.T) {
		activities, err := svc.List(ctx, "", "", models.ActivityStatusCancelled)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "Cancelled Drive", activities[0].Title)
	})

	t.Run("search over title", func(t *testing.T) {
		activities, err := svc.List(ctx, "cleanup", "", "")
		require.NoError(t, err)
		require.Len(t, activities, 1)
	})
}

func TestActivityParticipants(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewActivityService(db, NewAuditService(db))
	ctx := context.Background()

	activity := seedActivity(t, svc, "Tree Planting", time.Now().UTC().Add(24*time.Hour))
	member := seedMember(t, db, "planter@example.com", "secret123", models.AccountStatusActive)

	t.Run("adds and lists a participant", func(t *testing.T) {
		require.NoError(t, svc.AddParticipant(ctx, activity.ActivityID, member.MemberID, "mem_actor"))

		participants, err := svc.GetParticipants(ctx, activity.ActivityID)
		require.NoError(t, err)
		require.Len(t, participants, 1)
		assert.Equal(t, member.MemberID, participants[0].MemberID)
		assert.False(t, participants[0].JoinedAt.IsZero())
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		err := svc.AddParticipant(ctx, activity.ActivityID, member.MemberID, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, apierrors.ErrorTypeConflict, apiErr.Type)
	})

	t.Run("unknown activity or member is not found", func(t *testing.T) {
		err := svc.AddParticipant(ctx, "act_missing", member.MemberID, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Activity not found", apiErr.Message)

		err = svc.AddParticipant(ctx, activity.ActivityID, "mem_missing", "mem_actor")
		apiErr, ok = apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Member not found", apiErr.Message)
	})

	t.Run("removes a participant", func(t *testing.T) {
		require.NoError(t, svc.RemoveParticipant(ctx, activity.ActivityID, member.MemberID, "mem_actor"))

		participants, err := svc.GetParticipants(ctx, activity.ActivityID)
		require.NoError(t, err)
		assert.Empty(t, participants)

		err = svc.RemoveParticipant(ctx, activity.ActivityID, member.MemberID, "mem_actor")
		apiErr, ok := apierrors.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Participant not found", apiErr.Message)
	})
}

func TestActivityDelete(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewActivityService(db, NewAuditService(db))
	ctx := context.Background()

	activity := seedActivity(t, svc, "Doomed Activity", time.Now().UTC().Add(24*time.Hour))
	member := seedMember(t, db, "p@example.com", "secret123", models.AccountStatusActive)
	require.NoError(t, svc.AddParticipant(ctx, activity.ActivityID, member.MemberID, "mem_actor"))

	require.NoError(t, svc.Delete(ctx, activity.ActivityID, "mem_actor"))

	_, err := svc.Get(ctx, activity.ActivityID)
	assert.Error(t, err)

	var count int64
	db.Model(&models.ActivityParticipant{}).Where("activity_id = ?", activity.ActivityID).Count(&count)
	assert.Equal(t, int64(0), count, "participant rows are removed with the activity")
}
