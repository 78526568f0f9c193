package services

import (
	"context"
	"strings"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// DonationService handles donation CRUD operations
type DonationService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewDonationService creates a new donation service
func NewDonationService(db *gorm.DB, audit *AuditService) *DonationService {
	return &DonationService{db: db, audit: audit}
}

// Create persists a new donation
func (s *DonationService) Create(ctx context.Context, donation *models.Donation, actorID string) (*models.Donation, error) {
	if donation.DonorName == "" {
		return nil, apierrors.ValidationError("donorName is required")
	}
	if donation.Amount <= 0 {
		return nil, apierrors.ValidationError("amount must be positive")
	}

	if err := s.db.WithContext(ctx).Create(donation).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create donation", err)
	}

	s.audit.Record(ctx, "Donation", donation.DonationID, models.AuditActionCreate, actorID, nil, donation)
	return donation, nil
}

// Get retrieves a donation by ID
func (s *DonationService) Get(ctx context.Context, donationID string) (*models.Donation, error) {
	return s.find(ctx, donationID)
}

// List retrieves donations, newest date first, with optional case-insensitive
// search over donor name/notes and a category filter.
func (s *DonationService) List(ctx context.Context, search, category string) ([]models.Donation, error) {
	query := s.db.WithContext(ctx).Model(&models.Donation{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(donor_name) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var donations []models.Donation
	if err := query.Order("date DESC").Find(&donations).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list donations", err)
	}
	return donations, nil
}

// Update applies a full-field overwrite of an existing donation
func (s *DonationService) Update(ctx context.Context, donationID string, updated *models.Donation, actorID string) (*models.Donation, error) {
	if updated.DonorName == "" {
		return nil, apierrors.ValidationError("donorName is required")
	}
	if updated.Amount <= 0 {
		return nil, apierrors.ValidationError("amount must be positive")
	}

	existing, err := s.find(ctx, donationID)
	if err != nil {
		return nil, err
	}

	before := *existing
	existing.DonorName = updated.DonorName
	existing.DonorEmail = updated.DonorEmail
	existing.Amount = updated.Amount
	existing.Currency = updated.Currency
	existing.Category = updated.Category
	existing.Date = updated.Date
	existing.Notes = updated.Notes
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update donation", err)
	}

	s.audit.Record(ctx, "Donation", donationID, models.AuditActionUpdate, actorID, before, existing)
	return existing, nil
}

// Delete removes a donation
func (s *DonationService) Delete(ctx context.Context, donationID, actorID string) error {
	existing, err := s.find(ctx, donationID)
	if err != nil {
		return err
	}

	before := *existing
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete donation", err)
	}

	s.audit.Record(ctx, "Donation", donationID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

func (s *DonationService) find(ctx context.Context, donationID string) (*models.Donation, error) {
	var donation models.Donation
	err := s.db.WithContext(ctx).First(&donation, "donation_id = ?", donationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Donation")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch donation", err)
	}
	return &donation, nil
}
