package services

import (
	"context"
	"testing"
	"time"

	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierTick(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	mailer := &RecordingMailer{}
	notifier := NewNotifier(db, mailer, time.Hour)
	ctx := context.Background()

	member := seedMember(t, db, "reminder@example.com", "secret123", models.AccountStatusActive)

	upcoming := &models.Activity{
		Title:     "Beach Cleanup",
		Location:  "Marina Beach",
		StartTime: time.Now().UTC().Add(6 * time.Hour),
	}
	require.NoError(t, db.Create(upcoming).Error)
	require.NoError(t, db.Create(&models.ActivityParticipant{
		ActivityID: upcoming.ActivityID, MemberID: member.MemberID,
	}).Error)

	farOff := &models.Activity{
		Title:     "Next Month Gala",
		StartTime: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(farOff).Error)
	require.NoError(t, db.Create(&models.ActivityParticipant{
		ActivityID: farOff.ActivityID, MemberID: member.MemberID,
	}).Error)

	cancelled := &models.Activity{
		Title:     "Cancelled Walk",
		StartTime: time.Now().UTC().Add(2 * time.Hour),
		Status:    models.ActivityStatusCancelled,
	}
	require.NoError(t, db.Create(cancelled).Error)

	notifier.tick(ctx)

	require.Len(t, mailer.Sent, 1, "only participants of upcoming planned activities are mailed")
	assert.Equal(t, "reminder@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, "Beach Cleanup")
	assert.Contains(t, mailer.Sent[0].Body, "Marina Beach")

	t.Run("later ticks do not re-mail the same activity", func(t *testing.T) {
		notifier.tick(ctx)
		notifier.tick(ctx)
		assert.Len(t, mailer.Sent, 1)
	})
}

func TestNotifierStartStop(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	notifier := NewNotifier(db, &RecordingMailer{}, 50*time.Millisecond)

	notifier.Start(context.Background())
	time.Sleep(120 * time.Millisecond)
	notifier.Stop()

	// Stop must be safe to call once the loop has drained
	done := make(chan struct{})
	go func() {
		notifier.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
