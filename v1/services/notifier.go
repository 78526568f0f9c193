package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// Notifier is a background task that periodically emails participants of
// activities starting within the next 24 hours. It owns its own lifecycle:
// Start launches the loop, Stop cancels it and waits for it to drain.
type Notifier struct {
	db       *gorm.DB
	mailer   Mailer
	interval time.Duration

	// activities already reminded, so overlapping 24h windows across ticks
	// do not re-mail the same participants
	notified map[string]time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotifier builds a notifier with the given poll interval
func NewNotifier(db *gorm.DB, mailer Mailer, interval time.Duration) *Notifier {
	return &Notifier{db: db, mailer: mailer, interval: interval, notified: make(map[string]time.Time)}
}

// NewNotifierFromEnv builds a notifier with the interval taken from
// NOTIFY_INTERVAL_MINUTES (default 60).
func NewNotifierFromEnv(db *gorm.DB, mailer Mailer) *Notifier {
	minutes, err := strconv.Atoi(utils.GetEnvOrDefault("NOTIFY_INTERVAL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	return NewNotifier(db, mailer, time.Duration(minutes)*time.Minute)
}

// Start launches the polling loop. The loop stops when the parent context is
// cancelled or Stop is called.
func (n *Notifier) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		slog.Info("activity notifier started", "interval", n.interval)
		for {
			select {
			case <-ctx.Done():
				slog.Info("activity notifier stopped")
				return
			case <-ticker.C:
				n.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit
func (n *Notifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
}

// tick looks up upcoming activities and mails their participants once each
func (n *Notifier) tick(ctx context.Context) {
	now := time.Now().UTC()
	cutoff := now.Add(24 * time.Hour)

	var activities []models.Activity
	err := n.db.WithContext(ctx).
		Where("status = ? AND start_time > ? AND start_time <= ?", models.ActivityStatusPlanned, now, cutoff).
		Find(&activities).Error
	if err != nil {
		slog.Error("notifier failed to list upcoming activities", "error", err)
		return
	}

	for i := range activities {
		if _, done := n.notified[activities[i].ActivityID]; done {
			continue
		}
		n.notifyParticipants(ctx, &activities[i])
		n.notified[activities[i].ActivityID] = activities[i].StartTime
	}

	// Drop entries for activities that have started
	for id, start := range n.notified {
		if start.Before(now) {
			delete(n.notified, id)
		}
	}
}

func (n *Notifier) notifyParticipants(ctx context.Context, activity *models.Activity) {
	var participants []models.ActivityParticipant
	err := n.db.WithContext(ctx).
		Where("activity_id = ?", activity.ActivityID).
		Find(&participants).Error
	if err != nil {
		slog.Error("notifier failed to list participants", "activityId", activity.ActivityID, "error", err)
		return
	}

	for _, p := range participants {
		var member models.Member
		if err := n.db.WithContext(ctx).First(&member, "member_id = ?", p.MemberID).Error; err != nil {
			continue
		}
		subject := fmt.Sprintf("Reminder: %s", activity.Title)
		body := fmt.Sprintf("Hello %s,\n\n%q starts at %s (%s).\n",
			member.Name, activity.Title, activity.StartTime.Format(time.RFC1123), activity.Location)
		if err := n.mailer.Send(ctx, member.Email, subject, body); err != nil {
			slog.Warn("notifier failed to send reminder", "memberId", member.MemberID, "error", err)
		}
	}
}
