package services

import (
	"context"
	"strings"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// WorkshopService handles workshop resource CRUD operations
type WorkshopService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewWorkshopService creates a new workshop resource service
func NewWorkshopService(db *gorm.DB, audit *AuditService) *WorkshopService {
	return &WorkshopService{db: db, audit: audit}
}

// Create persists a new workshop resource
func (s *WorkshopService) Create(ctx context.Context, resource *models.WorkshopResource, actorID string) (*models.WorkshopResource, error) {
	if resource.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}

	if err := s.db.WithContext(ctx).Create(resource).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create workshop resource", err)
	}

	s.audit.Record(ctx, "WorkshopResource", resource.ResourceID, models.AuditActionCreate, actorID, nil, resource)
	return resource, nil
}

// Get retrieves a workshop resource by ID
func (s *WorkshopService) Get(ctx context.Context, resourceID string) (*models.WorkshopResource, error) {
	return s.find(ctx, resourceID)
}

// List retrieves workshop resources ordered by category then title, with
// optional search over title/description and category/type filters.
func (s *WorkshopService) List(ctx context.Context, search, category, resourceType string) ([]models.WorkshopResource, error) {
	query := s.db.WithContext(ctx).Model(&models.WorkshopResource{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if resourceType != "" {
		query = query.Where("type = ?", resourceType)
	}

	var resources []models.WorkshopResource
	if err := query.Order("category ASC, title ASC").Find(&resources).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list workshop resources", err)
	}
	return resources, nil
}

// Update applies a full-field overwrite of an existing workshop resource
func (s *WorkshopService) Update(ctx context.Context, resourceID string, updated *models.WorkshopResource, actorID string) (*models.WorkshopResource, error) {
	if updated.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}

	existing, err := s.find(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	before := *existing
	existing.Title = updated.Title
	existing.Type = updated.Type
	existing.URL = updated.URL
	existing.Category = updated.Category
	existing.Description = updated.Description
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update workshop resource", err)
	}

	s.audit.Record(ctx, "WorkshopResource", resourceID, models.AuditActionUpdate, actorID, before, existing)
	return existing, nil
}

// Delete removes a workshop resource
func (s *WorkshopService) Delete(ctx context.Context, resourceID, actorID string) error {
	existing, err := s.find(ctx, resourceID)
	if err != nil {
		return err
	}

	before := *existing
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete workshop resource", err)
	}

	s.audit.Record(ctx, "WorkshopResource", resourceID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

func (s *WorkshopService) find(ctx context.Context, resourceID string) (*models.WorkshopResource, error) {
	var resource models.WorkshopResource
	err := s.db.WithContext(ctx).First(&resource, "resource_id = ?", resourceID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Workshop resource")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch workshop resource", err)
	}
	return &resource, nil
}
