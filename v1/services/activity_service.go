package services

import (
	"context"
	"strings"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// ActivityService handles activity scheduling and participant management
type ActivityService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewActivityService creates a new activity service
func NewActivityService(db *gorm.DB, audit *AuditService) *ActivityService {
	return &ActivityService{db: db, audit: audit}
}

// Create persists a new activity
func (s *ActivityService) Create(ctx context.Context, activity *models.Activity, actorID string) (*models.Activity, error) {
	if activity.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}
	if activity.StartTime.IsZero() {
		return nil, apierrors.ValidationError("startTime is required")
	}

	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create activity", err)
	}

	s.audit.Record(ctx, "Activity", activity.ActivityID, models.AuditActionCreate, actorID, nil, activity)
	return activity, nil
}

// Get retrieves an activity by ID
func (s *ActivityService) Get(ctx context.Context, activityID string) (*models.Activity, error) {
	return s.find(ctx, activityID)
}

// List retrieves activities ordered by start time ascending, with optional
// search over title/description/location and category/status filters.
func (s *ActivityService) List(ctx context.Context, search, category, status string) ([]models.Activity, error) {
	query := s.db.WithContext(ctx).Model(&models.Activity{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var activities []models.Activity
	if err := query.Order("start_time ASC").Find(&activities).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list activities", err)
	}
	return activities, nil
}

// Update applies a full-field overwrite of an existing activity
func (s *ActivityService) Update(ctx context.Context, activityID string, updated *models.Activity, actorID string) (*models.Activity, error) {
	if updated.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}
	if updated.StartTime.IsZero() {
		return nil, apierrors.ValidationError("startTime is required")
	}

	existing, err := s.find(ctx, activityID)
	if err != nil {
		return nil, err
	}

	before := *existing
	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Category = updated.Category
	existing.Location = updated.Location
	existing.StartTime = updated.StartTime
	existing.EndTime = updated.EndTime
	existing.Status = updated.Status
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update activity", err)
	}

	s.audit.Record(ctx, "Activity", activityID, models.AuditActionUpdate, actorID, before, existing)
	return existing, nil
}

// Delete removes an activity and its participant rows
func (s *ActivityService) Delete(ctx context.Context, activityID, actorID string) error {
	existing, err := s.find(ctx, activityID)
	if err != nil {
		return err
	}

	before := *existing
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete activity", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.ActivityParticipant{}, "activity_id = ?", activityID).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete activity participants", err)
	}

	s.audit.Record(ctx, "Activity", activityID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

// AddParticipant registers a member for an activity. Audited as an activity
// update.
func (s *ActivityService) AddParticipant(ctx context.Context, activityID, memberID, actorID string) error {
	if _, err := s.find(ctx, activityID); err != nil {
		return err
	}

	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, "member_id = ?", memberID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apierrors.NotFoundError("Member")
		}
		return apierrors.InternalErrorWithCause("failed to fetch member", err)
	}

	var existing models.ActivityParticipant
	err := s.db.WithContext(ctx).
		First(&existing, "activity_id = ? AND member_id = ?", activityID, memberID).Error
	if err == nil {
		return apierrors.ConflictError("Member already registered for this activity")
	}
	if err != gorm.ErrRecordNotFound {
		return apierrors.InternalErrorWithCause("failed to check participant", err)
	}

	participant := models.ActivityParticipant{ActivityID: activityID, MemberID: memberID}
	if err := s.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to add participant", err)
	}

	s.audit.Record(ctx, "Activity", activityID, models.AuditActionUpdate, actorID,
		nil, map[string]string{"participantAdded": memberID})
	return nil
}

// RemoveParticipant unregisters a member from an activity
func (s *ActivityService) RemoveParticipant(ctx context.Context, activityID, memberID, actorID string) error {
	var participant models.ActivityParticipant
	err := s.db.WithContext(ctx).
		First(&participant, "activity_id = ? AND member_id = ?", activityID, memberID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apierrors.NotFoundError("Participant")
		}
		return apierrors.InternalErrorWithCause("failed to fetch participant", err)
	}

	if err := s.db.WithContext(ctx).
		Delete(&models.ActivityParticipant{}, "activity_id = ? AND member_id = ?", activityID, memberID).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to remove participant", err)
	}

	s.audit.Record(ctx, "Activity", activityID, models.AuditActionUpdate, actorID,
		map[string]string{"participantRemoved": memberID}, nil)
	return nil
}

// GetParticipants lists the members registered for an activity
func (s *ActivityService) GetParticipants(ctx context.Context, activityID string) ([]models.ActivityParticipant, error) {
	if _, err := s.find(ctx, activityID); err != nil {
		return nil, err
	}

	var participants []models.ActivityParticipant
	if err := s.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list participants", err)
	}
	return participants, nil
}

func (s *ActivityService) find(ctx context.Context, activityID string) (*models.Activity, error) {
	var activity models.Activity
	err := s.db.WithContext(ctx).First(&activity, "activity_id = ?", activityID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Activity")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch activity", err)
	}
	return &activity, nil
}
