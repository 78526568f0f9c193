package services

import (
	"context"
	"strings"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// LinkService handles portal link CRUD operations
type LinkService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewLinkService creates a new link service
func NewLinkService(db *gorm.DB, audit *AuditService) *LinkService {
	return &LinkService{db: db, audit: audit}
}

// Create persists a new link
func (s *LinkService) Create(ctx context.Context, link *models.Link, actorID string) (*models.Link, error) {
	if link.Title == "" || link.URL == "" {
		return nil, apierrors.ValidationError("title and url are required")
	}

	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create link", err)
	}

	s.audit.Record(ctx, "Link", link.LinkID, models.AuditActionCreate, actorID, nil, link)
	return link, nil
}

// Get retrieves a link by ID
func (s *LinkService) Get(ctx context.Context, linkID string) (*models.Link, error) {
	return s.find(ctx, linkID)
}

// List retrieves links ordered by category then title, with optional search
// over title/description and a category filter.
func (s *LinkService) List(ctx context.Context, search, category string) ([]models.Link, error) {
	query := s.db.WithContext(ctx).Model(&models.Link{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var links []models.Link
	if err := query.Order("category ASC, title ASC").Find(&links).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list links", err)
	}
	return links, nil
}

// Update applies a full-field overwrite of an existing link
func (s *LinkService) Update(ctx context.Context, linkID string, updated *models.Link, actorID string) (*models.Link, error) {
	if updated.Title == "" || updated.URL == "" {
		return nil, apierrors.ValidationError("title and url are required")
	}

	existing, err := s.find(ctx, linkID)
	if err != nil {
		return nil, err
	}

	before := *existing
	existing.Title = updated.Title
	existing.URL = updated.URL
	existing.Category = updated.Category
	existing.Description = updated.Description
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update link", err)
	}

	s.audit.Record(ctx, "Link", linkID, models.AuditActionUpdate, actorID, before, existing)
	return existing, nil
}

// Delete removes a link
func (s *LinkService) Delete(ctx context.Context, linkID, actorID string) error {
	existing, err := s.find(ctx, linkID)
	if err != nil {
		return err
	}

	before := *existing
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete link", err)
	}

	s.audit.Record(ctx, "Link", linkID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

func (s *LinkService) find(ctx context.Context, linkID string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).First(&link, "link_id = ?", linkID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Link")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch link", err)
	}
	return &link, nil
}
